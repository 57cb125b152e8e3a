package payroll

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/planillapro/payroll-backend-go/internal/domain/audit"
	"github.com/planillapro/payroll-backend-go/internal/domain/employee"
	"github.com/planillapro/payroll-backend-go/internal/domain/payroll"
	"github.com/planillapro/payroll-backend-go/internal/domain/taxconfig"
	"github.com/planillapro/payroll-backend-go/internal/service/calculation"
)

const defaultWorkers = 8

type RunServiceImpl struct {
	runRepo    payroll.RunRepository
	roster     employee.RosterProvider
	taxRepo    taxconfig.Repository
	sources    payroll.SourceRecordProvider
	calculator *calculation.Calculator
	auditSink  audit.Sink
	workers    int
}

func NewRunService(
	runRepo payroll.RunRepository,
	roster employee.RosterProvider,
	taxRepo taxconfig.Repository,
	sources payroll.SourceRecordProvider,
	calculator *calculation.Calculator,
	auditSink audit.Sink,
	workers int,
) payroll.RunService {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &RunServiceImpl{
		runRepo:    runRepo,
		roster:     roster,
		taxRepo:    taxRepo,
		sources:    sources,
		calculator: calculator,
		auditSink:  auditSink,
		workers:    workers,
	}
}

// Helper to get tenant_id and user_id from JWT context
func getClaimsFromContext(ctx context.Context) (tenantID, userID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	tenantID, ok := claims["tenant_id"].(string)
	if !ok || tenantID == "" {
		return "", "", fmt.Errorf("tenant_id claim is missing or invalid")
	}

	userID, _ = claims["user_id"].(string)

	return tenantID, userID, nil
}

// ========== LIFECYCLE ==========

func (s *RunServiceImpl) CreateRun(ctx context.Context, req payroll.CreateRunRequest) (payroll.RunResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RunResponse{}, err
	}

	tenantID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	periodStart, periodEnd, payDate, err := req.Dates()
	if err != nil {
		return payroll.RunResponse{}, err
	}

	run := payroll.PayrollRun{
		ID:                uuid.New().String(),
		TenantID:          tenantID,
		RunNumber:         req.RunNumber,
		PeriodStart:       periodStart,
		PeriodEnd:         periodEnd,
		PayDate:           payDate,
		Status:            payroll.RunStatusDraft,
		TotalGross:        decimal.Zero,
		TotalDeductions:   decimal.Zero,
		TotalNet:          decimal.Zero,
		TotalEmployerCost: decimal.Zero,
		Version:           1,
	}

	created, err := s.runRepo.Create(ctx, run)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	return toRunResponse(created), nil
}

// employeeOutcome holds one roster entry's slot in the fan-out result so
// the commit order stays deterministic regardless of worker scheduling.
type employeeOutcome struct {
	result  calculation.Result
	failure *payroll.EmployeeFailure
}

func (s *RunServiceImpl) ProcessRun(ctx context.Context, runID string) (payroll.RunResult, error) {
	tenantID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.RunResult{}, err
	}

	run, err := s.runRepo.GetByID(ctx, runID, tenantID)
	if err != nil {
		return payroll.RunResult{}, err
	}
	if run.Status != payroll.RunStatusDraft {
		return payroll.RunResult{}, fmt.Errorf("run %s is %s: %w", run.RunNumber, run.Status, payroll.ErrInvalidTransition)
	}

	cfg, err := s.taxRepo.GetEffective(ctx, tenantID, run.PayDate)
	if err != nil {
		return payroll.RunResult{}, err
	}
	// An empty bracket table is not fatal to the run: employees exempt from
	// income tax never look a bracket up, and the tax step reports
	// ErrBracketNotFound per employee for those who do.
	brackets, err := s.taxRepo.GetBrackets(ctx, tenantID, run.PayDate.Year())
	if err != nil {
		if !errors.Is(err, taxconfig.ErrNoBracketsForYear) {
			return payroll.RunResult{}, err
		}
		brackets = nil
	}

	profiles, err := s.roster.GetActivePayProfiles(ctx, tenantID, run.PeriodStart, run.PeriodEnd)
	if err != nil {
		return payroll.RunResult{}, err
	}
	if len(profiles) == 0 {
		return payroll.RunResult{}, payroll.ErrEmptyRoster
	}

	// All source records are loaded up front so the per-employee pipeline
	// is pure computation.
	sources, err := s.sources.GetUnconsumed(ctx, tenantID, run.PeriodStart, run.PeriodEnd)
	if err != nil {
		return payroll.RunResult{}, err
	}

	period := calculation.Period{Start: run.PeriodStart, End: run.PeriodEnd, PayDate: run.PayDate}
	outcomes := make([]employeeOutcome, len(profiles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, profile := range profiles {
		i, profile := i, profile
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, calcErr := s.calculator.CalculateEmployee(profile, period, cfg, brackets, sources[profile.EmployeeID])
			if calcErr != nil {
				// A single employee failing does not abort the run; the
				// failure is reported alongside the committed result.
				outcomes[i] = employeeOutcome{failure: &payroll.EmployeeFailure{
					EmployeeID: profile.EmployeeID,
					Reason:     calcErr.Error(),
				}}
				return nil
			}
			outcomes[i] = employeeOutcome{result: result}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return payroll.RunResult{}, err
	}

	var (
		details  []payroll.PayrollDetail
		consumed []payroll.ConsumedRecords
		failed   []payroll.EmployeeFailure
	)
	totals := payroll.RunTotals{
		Gross:        decimal.Zero,
		Deductions:   decimal.Zero,
		Net:          decimal.Zero,
		EmployerCost: decimal.Zero,
	}

	for i := range outcomes {
		if outcomes[i].failure != nil {
			failed = append(failed, *outcomes[i].failure)
			continue
		}

		detail := outcomes[i].result.Detail
		detail.ID = uuid.New().String()
		detail.RunID = run.ID

		claim := outcomes[i].result.Consumed
		claim.DetailID = detail.ID

		totals.Gross = totals.Gross.Add(detail.GrossPay)
		totals.Deductions = totals.Deductions.Add(detail.TotalDeductions)
		totals.Net = totals.Net.Add(detail.NetPay)
		totals.EmployerCost = totals.EmployerCost.Add(detail.EmployerCost)

		details = append(details, detail)
		consumed = append(consumed, claim)
	}

	if len(details) == 0 {
		return payroll.RunResult{}, fmt.Errorf("all %d employees failed: %w", len(profiles), payroll.ErrNoEmployeesProcessed)
	}

	run.TotalGross = totals.Gross
	run.TotalDeductions = totals.Deductions
	run.TotalNet = totals.Net
	run.TotalEmployerCost = totals.EmployerCost

	stamp := payroll.TransitionStamp{ActorID: userID, At: time.Now().UTC()}
	committed, err := s.runRepo.CommitProcessed(ctx, run, details, consumed, run.Version, stamp)
	if err != nil {
		return payroll.RunResult{}, err
	}

	s.notifyTransition(ctx, committed, payroll.RunStatusDraft, userID)

	return payroll.RunResult{
		RunID:          committed.ID,
		ProcessedCount: len(details),
		Failed:         failed,
		Totals:         totals,
	}, nil
}

func (s *RunServiceImpl) ApproveRun(ctx context.Context, runID string) (payroll.RunResponse, error) {
	tenantID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	run, err := s.runRepo.GetByID(ctx, runID, tenantID)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	// Re-approval by the same actor is a no-op rather than a conflict.
	if run.Status == payroll.RunStatusApproved && run.ApprovedBy != nil && *run.ApprovedBy == userID {
		return toRunResponse(run), nil
	}
	if run.Status != payroll.RunStatusProcessed {
		return payroll.RunResponse{}, fmt.Errorf("run %s is %s: %w", run.RunNumber, run.Status, payroll.ErrInvalidTransition)
	}

	stamp := payroll.TransitionStamp{ActorID: userID, At: time.Now().UTC()}
	updated, err := s.runRepo.Transition(ctx, runID, tenantID, payroll.RunStatusProcessed, payroll.RunStatusApproved, run.Version, stamp)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	s.notifyTransition(ctx, updated, payroll.RunStatusProcessed, userID)

	return toRunResponse(updated), nil
}

func (s *RunServiceImpl) MarkPaid(ctx context.Context, runID string, req payroll.MarkPaidRequest) (payroll.RunResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RunResponse{}, err
	}

	tenantID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	run, err := s.runRepo.GetByID(ctx, runID, tenantID)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	// Replaying the payment by the same actor with the same reference is a
	// no-op rather than a conflict.
	if run.Status == payroll.RunStatusPaid &&
		run.PaidBy != nil && *run.PaidBy == userID &&
		run.PaymentReference != nil && *run.PaymentReference == req.PaymentReference {
		return toRunResponse(run), nil
	}
	if run.Status != payroll.RunStatusApproved {
		return payroll.RunResponse{}, fmt.Errorf("run %s is %s: %w", run.RunNumber, run.Status, payroll.ErrInvalidTransition)
	}

	stamp := payroll.TransitionStamp{
		ActorID:          userID,
		PaymentReference: req.PaymentReference,
		At:               time.Now().UTC(),
	}
	updated, err := s.runRepo.Transition(ctx, runID, tenantID, payroll.RunStatusApproved, payroll.RunStatusPaid, run.Version, stamp)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	s.notifyTransition(ctx, updated, payroll.RunStatusApproved, userID)

	return toRunResponse(updated), nil
}

// ========== QUERIES ==========

func (s *RunServiceImpl) GetRun(ctx context.Context, runID string) (payroll.RunResponse, error) {
	tenantID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	run, err := s.runRepo.GetByID(ctx, runID, tenantID)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	details, err := s.runRepo.GetDetails(ctx, runID, tenantID)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	run.Details = details

	return toRunResponse(run), nil
}

func (s *RunServiceImpl) ListRuns(ctx context.Context, filter payroll.RunFilter) (payroll.ListRunResponse, error) {
	tenantID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.ListRunResponse{}, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	runs, total, err := s.runRepo.List(ctx, tenantID, filter)
	if err != nil {
		return payroll.ListRunResponse{}, err
	}

	data := make([]payroll.RunResponse, 0, len(runs))
	for _, run := range runs {
		data = append(data, toRunResponse(run))
	}

	return payroll.ListRunResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *RunServiceImpl) DeleteRun(ctx context.Context, runID string) error {
	tenantID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	return s.runRepo.Delete(ctx, runID, tenantID)
}

func (s *RunServiceImpl) GetSummary(ctx context.Context, periodStart, periodEnd string) (payroll.RunSummaryResponse, error) {
	tenantID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.RunSummaryResponse{}, err
	}

	start, err := time.Parse("2006-01-02", periodStart)
	if err != nil {
		return payroll.RunSummaryResponse{}, fmt.Errorf("period_start: %w", payroll.ErrInvalidPeriod)
	}
	end, err := time.Parse("2006-01-02", periodEnd)
	if err != nil {
		return payroll.RunSummaryResponse{}, fmt.Errorf("period_end: %w", payroll.ErrInvalidPeriod)
	}
	if end.Before(start) {
		return payroll.RunSummaryResponse{}, fmt.Errorf("period_end before period_start: %w", payroll.ErrInvalidPeriod)
	}

	return s.runRepo.GetSummary(ctx, tenantID, start, end)
}

func (s *RunServiceImpl) notifyTransition(ctx context.Context, run payroll.PayrollRun, from payroll.RunStatus, actorID string) {
	if s.auditSink == nil {
		return
	}
	s.auditSink.RunTransitioned(ctx, audit.Event{
		TenantID:   run.TenantID,
		RunID:      run.ID,
		RunNumber:  run.RunNumber,
		FromStatus: string(from),
		ToStatus:   string(run.Status),
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
	})
}

// ========== MAPPING ==========

func toRunResponse(run payroll.PayrollRun) payroll.RunResponse {
	resp := payroll.RunResponse{
		ID:                run.ID,
		TenantID:          run.TenantID,
		RunNumber:         run.RunNumber,
		PeriodStart:       run.PeriodStart.Format("2006-01-02"),
		PeriodEnd:         run.PeriodEnd.Format("2006-01-02"),
		PayDate:           run.PayDate.Format("2006-01-02"),
		Status:            string(run.Status),
		TotalGross:        run.TotalGross,
		TotalDeductions:   run.TotalDeductions,
		TotalNet:          run.TotalNet,
		TotalEmployerCost: run.TotalEmployerCost,
		ProcessedBy:       run.ProcessedBy,
		ApprovedBy:        run.ApprovedBy,
		PaidBy:            run.PaidBy,
		PaymentReference:  run.PaymentReference,
		Version:           run.Version,
	}
	resp.ProcessedAt = formatTimePtr(run.ProcessedAt)
	resp.ApprovedAt = formatTimePtr(run.ApprovedAt)
	resp.PaidAt = formatTimePtr(run.PaidAt)

	if len(run.Details) > 0 {
		details := make([]payroll.DetailResponse, 0, len(run.Details))
		for _, d := range run.Details {
			details = append(details, toDetailResponse(d))
		}
		sort.Slice(details, func(i, j int) bool { return details[i].EmployeeID < details[j].EmployeeID })
		resp.Details = details
	}

	return resp
}

func toDetailResponse(d payroll.PayrollDetail) payroll.DetailResponse {
	return payroll.DetailResponse{
		ID:               d.ID,
		RunID:            d.RunID,
		EmployeeID:       d.EmployeeID,
		EmployeeName:     d.EmployeeName,
		EmployeeCode:     d.EmployeeCode,
		BaseSalary:       d.BaseSalary,
		OvertimeAmount:   d.OvertimeAmount,
		VacationAmount:   d.VacationAmount,
		BonusAmount:      d.BonusAmount,
		GrossPay:         d.GrossPay,
		CSSEmployee:      d.CSSEmployee,
		RiskContribution: d.RiskContribution,
		EduEmployee:      d.EduEmployee,
		IncomeTax:        d.IncomeTax,
		AbsenceDeduction: d.AbsenceDeduction,
		FixedDeductions:  d.FixedDeductions,
		LoanInstallments: d.LoanInstallments,
		Advances:         d.Advances,
		OtherDeductions:  d.OtherDeductions,
		TotalDeductions:  d.TotalDeductions,
		NetPay:           d.NetPay,
		CSSEmployer:      d.CSSEmployer,
		EduEmployer:      d.EduEmployer,
		EmployerCost:     d.EmployerCost,
		OvertimeHours:    d.OvertimeHours,
		AbsenceDays:      d.AbsenceDays,
		VacationDays:     d.VacationDays,
	}
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
