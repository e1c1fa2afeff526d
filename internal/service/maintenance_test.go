package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"reportbot/internal/domain"
	"reportbot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const staleAfter = 30 * time.Minute

func TestMaintenanceService_CleanupOldData(t *testing.T) {
	tests := []struct {
		name          string
		mockError     error
		expectedError bool
	}{
		{
			name:          "successful cleanup",
			mockError:     nil,
			expectedError: false,
		},
		{
			name:          "database error",
			mockError:     fmt.Errorf("db error"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockArchive := new(testutil.MockReportArchive)
			mockArchive.On("CleanOldReports", mock.Anything, 60).Return(tt.mockError)

			logger := testutil.NewTestLogger()
			service := NewMaintenanceService(mockArchive, nil, staleAfter, logger)

			err := service.CleanupOldData(context.Background())

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			mockArchive.AssertExpectations(t)
		})
	}
}

func failedReport(id int64, department domain.Department, attempts int) domain.Report {
	r := testutil.NewTestReport(id, department, submittedAt)
	r.ID = id
	r.Status = domain.ReportFailed
	r.Attempts = attempts
	return *r
}

func stalePendingReport(id int64, department domain.Department) domain.Report {
	r := testutil.NewTestReport(id, department, submittedAt)
	r.ID = id
	return *r
}

func TestMaintenanceService_Redeliver(t *testing.T) {
	sheet := testutil.NewFakeSheet()
	notifier := new(testutil.MockNotifier)
	mockArchive := new(testutil.MockReportArchive)

	mockArchive.On("ListUndelivered", mock.Anything, MaxDeliveryAttempts, staleAfter, 20).Return([]domain.Report{
		failedReport(1, domain.DepartmentWash, 1),
		stalePendingReport(2, domain.DepartmentWash),
	}, nil)
	mockArchive.On("MarkDelivered", mock.Anything, int64(1), 3).Return(nil).Once()
	mockArchive.On("MarkDelivered", mock.Anything, int64(2), 4).Return(nil).Once()
	notifier.On("Notify", int64(1), "Your wash report from 14/05/2024 has been recorded.").Return(nil).Once()
	notifier.On("Notify", int64(2), "Your wash report from 14/05/2024 has been recorded.").Return(nil).Once()

	delivery := NewDelivery(sheet, mockArchive, notifier, testPolicy, time.UTC, testutil.NewTestLogger())
	service := NewMaintenanceService(mockArchive, delivery, staleAfter, testutil.NewTestLogger())

	require.NoError(t, service.Redeliver(context.Background()))

	assert.Len(t, sheet.Batches, 2)
	mockArchive.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestMaintenanceService_RedeliveryFails(t *testing.T) {
	tests := []struct {
		name     string
		attempts int
		notified bool
	}{
		{name: "attempts left", attempts: 1, notified: false},
		{name: "last attempt", attempts: MaxDeliveryAttempts - 1, notified: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheet := new(testutil.MockSheetRepository)
			sheet.On("ReadCell", mock.Anything, 55, 3).Return("", nil)
			sheet.On("BatchWrite", mock.Anything, mock.Anything).Return(fmt.Errorf("permission denied"))

			notifier := new(testutil.MockNotifier)
			if tt.notified {
				notifier.On("Notify", int64(7), "Your breakup report from 14/05/2024 could not be recorded. Please submit it again.").Return(nil).Once()
			}

			mockArchive := new(testutil.MockReportArchive)
			mockArchive.On("ListUndelivered", mock.Anything, MaxDeliveryAttempts, staleAfter, 20).
				Return([]domain.Report{failedReport(7, domain.DepartmentBreakup, tt.attempts)}, nil)
			mockArchive.On("MarkFailed", mock.Anything, int64(7), mock.AnythingOfType("string")).Return(nil).Once()

			delivery := NewDelivery(sheet, mockArchive, notifier, testPolicy, time.UTC, testutil.NewTestLogger())
			service := NewMaintenanceService(mockArchive, delivery, staleAfter, testutil.NewTestLogger())

			require.NoError(t, service.Redeliver(context.Background()))

			mockArchive.AssertExpectations(t)
			notifier.AssertExpectations(t)
			mockArchive.AssertNotCalled(t, "MarkDelivered", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestMaintenanceService_Run(t *testing.T) {
	mockArchive := new(testutil.MockReportArchive)
	mockArchive.On("ListUndelivered", mock.Anything, MaxDeliveryAttempts, staleAfter, 20).Return(nil, fmt.Errorf("db error"))
	mockArchive.On("CleanOldReports", mock.Anything, 60).Return(nil)

	service := NewMaintenanceService(mockArchive, nil, staleAfter, testutil.NewTestLogger())

	err := service.Run(context.Background())
	assert.Error(t, err)
	mockArchive.AssertExpectations(t)
}
