package payroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRunRequest_Dates(t *testing.T) {
	req := CreateRunRequest{
		RunNumber:   "2025-06",
		PeriodStart: "2025-06-01",
		PeriodEnd:   "2025-06-30",
		PayDate:     "2025-06-30",
	}
	require.NoError(t, req.Validate())

	start, end, pay, err := req.Dates()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), end)
	assert.Equal(t, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), pay)
}

func TestCreateRunRequest_Dates_Malformed(t *testing.T) {
	req := CreateRunRequest{
		RunNumber:   "2025-06",
		PeriodStart: "June 1st",
		PeriodEnd:   "2025-06-30",
		PayDate:     "2025-06-30",
	}

	_, _, _, err := req.Dates()
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}
