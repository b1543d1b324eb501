package chart

import (
	"bytes"
	"context"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wattbuild/costreport-go/internal/domain/entity"
)

func testCategories() []entity.Category {
	return []entity.Category{
		{
			ID:             "cat-a",
			Name:           "MV Reticulation",
			OriginalBudget: 5200000,
			LineItems: []entity.LineItem{
				{Description: "Cabling", Amount: 3450000},
				{Description: "Switchgear", Amount: 2000000},
			},
		},
		{
			ID:             "cat-b",
			Name:           "Standby Generation",
			OriginalBudget: 3100000,
			LineItems: []entity.LineItem{
				{Description: "Generator sets", Amount: 2800000},
				{Description: "Fuel systems", Amount: 250000},
			},
		},
	}
}

func TestCaptureBudgetVsFinalExactDimensions(t *testing.T) {
	capturer := NewCapturer().WithSettleDelay(0)

	captured, err := capturer.Capture(context.Background(), entity.ChartRequest{
		Kind:       entity.ChartBudgetVsFinal,
		Title:      "Budget vs Anticipated Final",
		Width:      640,
		Height:     360,
		Categories: testCategories(),
	})
	require.NoError(t, err)
	require.NotNil(t, captured)

	img, err := png.Decode(bytes.NewReader(captured.PNG))
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())
	assert.Equal(t, 360, img.Bounds().Dy())
	assert.Equal(t, "Budget vs Anticipated Final", captured.Title)
}

func TestCaptureCostSplit(t *testing.T) {
	capturer := NewCapturer().WithSettleDelay(0)

	captured, err := capturer.Capture(context.Background(), entity.ChartRequest{
		Kind:       entity.ChartCostSplit,
		Title:      "Cost Split",
		Width:      400,
		Height:     400,
		Categories: testCategories(),
	})
	require.NoError(t, err)
	require.NotNil(t, captured)

	img, err := png.Decode(bytes.NewReader(captured.PNG))
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())
}

func TestCaptureSkipsEmptyData(t *testing.T) {
	capturer := NewCapturer().WithSettleDelay(0)

	captured, err := capturer.Capture(context.Background(), entity.ChartRequest{
		Kind:  entity.ChartBudgetVsFinal,
		Title: "Budget vs Anticipated Final",
	})
	require.NoError(t, err)
	assert.Nil(t, captured)
}

func TestCaptureSkipsCostSplitWithoutPositiveTotals(t *testing.T) {
	capturer := NewCapturer().WithSettleDelay(0)

	captured, err := capturer.Capture(context.Background(), entity.ChartRequest{
		Kind:  entity.ChartCostSplit,
		Title: "Cost Split",
		Categories: []entity.Category{
			{ID: "cat-z", Name: "Zeroed", LineItems: []entity.LineItem{{Description: "Nothing", Amount: 0}}},
		},
	})
	require.NoError(t, err)
	assert.Nil(t, captured)
}

func TestCaptureHonorsCancellationDuringSettle(t *testing.T) {
	capturer := NewCapturer().WithSettleDelay(5 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	captured, err := capturer.Capture(ctx, entity.ChartRequest{
		Kind:       entity.ChartBudgetVsFinal,
		Title:      "Budget vs Anticipated Final",
		Categories: testCategories(),
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, captured)
}
