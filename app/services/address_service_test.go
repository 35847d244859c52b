package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zh-address-parser/app/models"
	"github.com/zh-address-parser/app/requests"
	"github.com/zh-address-parser/app/responses"
)

const labelledAddress = "收货人：李四 联系电话：138-0000-0000 广东省深圳市南山区粤海街道科技园 518057"

func boolPtr(v bool) *bool { return &v }

func TestParseAddress(t *testing.T) {
	svc := newTestStack(t).addressService(nil, AddressServiceConfig{})

	result, hit, err := svc.ParseAddress(context.Background(), labelledAddress, requests.ParseOptions{})
	require.NoError(t, err)
	assert.False(t, hit)

	assert.Equal(t, labelledAddress, result.Raw)
	assert.Equal(t, models.StatusMatched, result.Status)
	assert.Equal(t, 4, result.ResolvedLevels)
	assert.Equal(t, testVersion, result.GazetteerVersion)
	assert.Equal(t, "44", result.ProvinceCode)
	assert.Equal(t, "4403", result.CityCode)
	assert.Equal(t, "440305", result.AreaCode)
	assert.Equal(t, "440305001", result.StreetCode)
	assert.Equal(t, "13800000000", result.Phone)
	assert.Equal(t, "518057", result.PostalCode)
	assert.Equal(t, int64(1), svc.TotalProcessed())
}

func TestParseAddressWithoutExtraction(t *testing.T) {
	svc := newTestStack(t).addressService(nil, AddressServiceConfig{})

	result, _, err := svc.ParseAddress(context.Background(), labelledAddress, requests.ParseOptions{
		ExtractPhone:      boolPtr(false),
		ExtractPostalCode: boolPtr(false),
	})
	require.NoError(t, err)
	assert.Empty(t, result.Phone)
	assert.Empty(t, result.PostalCode)
}

func TestParseAddressStatus(t *testing.T) {
	svc := newTestStack(t).addressService(nil, AddressServiceConfig{})
	ctx := context.Background()

	partial, _, err := svc.ParseAddress(ctx, "浙江省杭州市西湖区文三路", requests.ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPartial, partial.Status)
	assert.Equal(t, 3, partial.ResolvedLevels)

	blank, _, err := svc.ParseAddress(ctx, "   ", requests.ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnmatched, blank.Status)
	assert.Zero(t, blank.ResolvedLevels)
}

func TestParseAddressCache(t *testing.T) {
	cache := NewCacheService(time.Hour)
	svc := newTestStack(t).addressService(cache, AddressServiceConfig{})
	ctx := context.Background()

	first, hit, err := svc.ParseAddress(ctx, labelledAddress, requests.ParseOptions{})
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := svc.ParseAddress(ctx, labelledAddress, requests.ParseOptions{})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, second)

	_, hit, err = svc.ParseAddress(ctx, labelledAddress, requests.ParseOptions{UseCache: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, hit)

	// Tùy chọn khác nên không dùng chung entry
	_, hit, err = svc.ParseAddress(ctx, labelledAddress, requests.ParseOptions{ExtractName: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, cache.Size())
}

func TestProcessBatchJob(t *testing.T) {
	svc := newTestStack(t).addressService(nil, AddressServiceConfig{Workers: 2})
	addresses := []string{labelledAddress, "浙江省杭州市西湖区文三路", "火星基地"}

	svc.ProcessBatchJob(context.Background(), "job-1", addresses, requests.ParseOptions{})

	status, err := svc.GetJobStatus("job-1")
	require.NoError(t, err)
	assert.Equal(t, responses.JobStatusDone, status.Status)
	assert.Equal(t, 3, status.Processed)
	assert.InDelta(t, 1.0, status.Progress, 1e-9)
	assert.Equal(t, map[string]int{
		models.StatusMatched:   1,
		models.StatusPartial:   1,
		models.StatusUnmatched: 1,
	}, status.Summary)

	results, err := svc.GetJobResults("job-1")
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, addr := range addresses {
		assert.Equal(t, addr, results[i].Raw)
	}

	stream, err := svc.GetJobResultsStream(context.Background(), "job-1")
	require.NoError(t, err)
	var streamed []models.AddressResult
	for r := range stream {
		streamed = append(streamed, r)
	}
	assert.Equal(t, results, streamed)
}

func TestProcessBatchJobCancelled(t *testing.T) {
	svc := newTestStack(t).addressService(nil, AddressServiceConfig{Workers: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc.ProcessBatchJob(ctx, "job-cancel", []string{"广东省", "浙江省"}, requests.ParseOptions{})

	status, err := svc.GetJobStatus("job-cancel")
	require.NoError(t, err)
	assert.Equal(t, responses.JobStatusFailed, status.Status)

	_, err = svc.GetJobResults("job-cancel")
	assert.ErrorIs(t, err, ErrJobNotReady)
}

func TestStartBatchJob(t *testing.T) {
	svc := newTestStack(t).addressService(nil, AddressServiceConfig{MaxAddresses: 2})

	_, err := svc.StartBatchJob([]string{"a", "b", "c"}, requests.ParseOptions{})
	assert.ErrorIs(t, err, ErrTooManyAddresses)

	jobID, err := svc.StartBatchJob([]string{labelledAddress}, requests.ParseOptions{})
	require.NoError(t, err)
	_, err = svc.GetJobStatus(jobID)
	assert.NoError(t, err)

	assert.Eventually(t, func() bool {
		status, err := svc.GetJobStatus(jobID)
		return err == nil && status.Status == responses.JobStatusDone
	}, 5*time.Second, 10*time.Millisecond)
	assert.Zero(t, svc.ActiveJobs())

	_, err = svc.GetJobStatus("missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestGetJobResultsNotReady(t *testing.T) {
	svc := newTestStack(t).addressService(nil, AddressServiceConfig{})
	svc.registerJob("pending", 10)

	_, err := svc.GetJobResults("pending")
	assert.ErrorIs(t, err, ErrJobNotReady)
	assert.Equal(t, 1, svc.ActiveJobs())

	_, err = svc.GetJobResults("missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestCleanupJobs(t *testing.T) {
	svc := newTestStack(t).addressService(nil, AddressServiceConfig{JobTTL: time.Minute})
	svc.ProcessBatchJob(context.Background(), "old", []string{"广东省"}, requests.ParseOptions{})
	svc.registerJob("pending", 1)

	assert.Equal(t, 0, svc.CleanupJobs(time.Now()))
	assert.Equal(t, 1, svc.CleanupJobs(time.Now().Add(2*time.Minute)))

	_, err := svc.GetJobStatus("old")
	assert.ErrorIs(t, err, ErrJobNotFound)
	_, err = svc.GetJobStatus("pending")
	assert.NoError(t, err)
}

func TestEstimateBatchProcessingTime(t *testing.T) {
	svc := newTestStack(t).addressService(nil, AddressServiceConfig{Workers: 2})
	assert.Equal(t, 0, svc.EstimateBatchProcessingTime(0))
	assert.Equal(t, 1, svc.EstimateBatchProcessingTime(10))
	assert.Equal(t, 10, svc.EstimateBatchProcessingTime(10000))
}
