package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"reportbot/internal/domain"
	"reportbot/internal/repository"
	"reportbot/internal/retry"
	"reportbot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testPolicy = retry.Policy{MaxRetries: 3, BaseDelay: time.Millisecond}

func TestColumnAllocator_Next(t *testing.T) {
	tests := []struct {
		name     string
		filled   []int
		expected int
	}{
		{name: "empty row", filled: nil, expected: 3},
		{name: "four reports", filled: []int{3, 4, 5, 6}, expected: 7},
		{name: "gap is reused", filled: []int{3, 5}, expected: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheet := testutil.NewFakeSheet()
			for _, column := range tt.filled {
				sheet.Set(55, column, "x")
			}
			sheet.Set(56, tt.expected, "other row")

			allocator := NewColumnAllocator(sheet, testPolicy, testutil.NewTestLogger())

			column, err := allocator.Next(context.Background(), 55)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, column)
		})
	}
}

func TestColumnAllocator_RetriesTransientReads(t *testing.T) {
	sheet := new(testutil.MockSheetRepository)
	unavailable := fmt.Errorf("%w: 503", repository.ErrUnavailable)

	sheet.On("ReadCell", mock.Anything, 4, 3).Return("12/03/2024", nil).Once()
	sheet.On("ReadCell", mock.Anything, 4, 4).Return("", unavailable).Twice()
	sheet.On("ReadCell", mock.Anything, 4, 4).Return("", nil).Once()

	allocator := NewColumnAllocator(sheet, testPolicy, testutil.NewTestLogger())

	column, err := allocator.Next(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, 4, column)
	sheet.AssertExpectations(t)
	sheet.AssertNumberOfCalls(t, "ReadCell", 4)
}

func TestColumnAllocator_GivesUpOnPermanentError(t *testing.T) {
	sheet := new(testutil.MockSheetRepository)
	forbidden := errors.New("403 forbidden")
	sheet.On("ReadCell", mock.Anything, 18, 3).Return("", forbidden).Once()

	allocator := NewColumnAllocator(sheet, testPolicy, testutil.NewTestLogger())

	_, err := allocator.Next(context.Background(), 18)
	require.Error(t, err)
	assert.ErrorIs(t, err, forbidden)
	sheet.AssertNumberOfCalls(t, "ReadCell", 1)
}

func TestColumnAllocator_RetriesExhausted(t *testing.T) {
	sheet := new(testutil.MockSheetRepository)
	sheet.On("ReadCell", mock.Anything, 18, 3).Return("", repository.ErrUnavailable)

	allocator := NewColumnAllocator(sheet, testPolicy, testutil.NewTestLogger())

	_, err := allocator.Next(context.Background(), 18)
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrUnavailable)
	sheet.AssertNumberOfCalls(t, "ReadCell", testPolicy.Attempts())
}

func TestColumnAllocator_RowFull(t *testing.T) {
	sheet := testutil.NewFakeSheet()
	allocator := NewColumnAllocator(sheet, testPolicy, testutil.NewTestLogger())
	allocator.maxColumn = 5
	for column := domain.FirstColumn; column <= 5; column++ {
		sheet.Set(32, column, 1)
	}

	_, err := allocator.Next(context.Background(), 32)
	assert.ErrorIs(t, err, ErrNoEmptyColumn)
}
