/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/searchstore/storagemodels"
)

// batchLimit is the maximum number of writes in one BatchWriteItem call.
const batchLimit = 25

// ScanOptions controls table scans and batch writes.
type ScanOptions struct {
	// PageSize is the Limit of each Scan page. Zero leaves pages unlimited.
	PageSize int32
	// MaxRetries bounds retries of throttled or unprocessed requests.
	MaxRetries int
	// RetryBackoff is multiplied by the attempt number between retries.
	RetryBackoff time.Duration
}

// DefaultScanOptions returns the default scan options.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		PageSize:     100,
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
	}
}

// Search scans the table and evaluates q in process. Without a sort, hits are
// ordered by ID.
func (c *Client) Search(ctx context.Context, index string, q *storagemodels.Query) (*storagemodels.Hits, error) {
	matched, err := c.match(ctx, index, q)
	if err != nil {
		return nil, err
	}
	if q != nil && len(q.Sort) > 0 {
		if err := storagemodels.SortDocuments(matched, q.Sort); err != nil {
			return nil, err
		}
	}
	return &storagemodels.Hits{
		Total:     uint64(len(matched)),
		Documents: q.Window(matched),
	}, nil
}

// Count scans the table and counts the documents matching q.
func (c *Client) Count(ctx context.Context, index string, q *storagemodels.Query) (uint64, error) {
	matched, err := c.match(ctx, index, q)
	if err != nil {
		return 0, err
	}
	return uint64(len(matched)), nil
}

func (c *Client) match(ctx context.Context, index string, q *storagemodels.Query) ([]storagemodels.Document, error) {
	docs, err := c.scanAll(ctx, index)
	if err != nil {
		return nil, err
	}
	matched := docs[:0]
	for _, d := range docs {
		ok, err := q.Match(d.Source)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, d)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, nil
}

// scanAll reads every item of the table page by page.
func (c *Client) scanAll(ctx context.Context, index string) ([]storagemodels.Document, error) {
	input := &sdk.ScanInput{TableName: aws.String(index)}
	if c.opts.PageSize > 0 {
		input.Limit = aws.Int32(c.opts.PageSize)
	}

	var docs []storagemodels.Document
	pages := 0
	for {
		out, err := c.scanWithRetry(ctx, input)
		if err != nil {
			return nil, tableError(err, index, "Scan")
		}
		pages++

		for _, av := range out.Items {
			d, err := decodeItem(av)
			if err != nil {
				return nil, err
			}
			docs = append(docs, d)
		}

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}

	c.logger.Debug("scanned table", "index", index, "pages", pages, "items", len(docs))
	return docs, nil
}

// scanWithRetry executes one Scan page with the configured retry logic.
func (c *Client) scanWithRetry(ctx context.Context, input *sdk.ScanInput) (*sdk.ScanOutput, error) {
	var lastErr error

	for attempt := 0; attempt <= c.opts.MaxRetries; attempt++ {
		out, err := c.api.Scan(ctx, input)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if !isRetryableError(err) {
			return nil, err
		}
		if attempt < c.opts.MaxRetries {
			if err := c.backoff(ctx, attempt); err != nil {
				return nil, err
			}
		}
	}

	return nil, fmt.Errorf("scan failed after %d retries: %w", c.opts.MaxRetries, lastErr)
}

// Bulk writes docs in batches of 25, retrying unprocessed items. When several
// documents share an ID the last one wins.
func (c *Client) Bulk(ctx context.Context, index string, docs []storagemodels.Document) error {
	requests := make([]types.WriteRequest, 0, len(docs))
	position := make(map[string]int, len(docs))
	for _, d := range docs {
		av, id, err := encodeItem(d)
		if err != nil {
			return err
		}
		req := types.WriteRequest{PutRequest: &types.PutRequest{Item: av}}
		if i, seen := position[id]; seen {
			requests[i] = req
			continue
		}
		position[id] = len(requests)
		requests = append(requests, req)
	}

	for start := 0; start < len(requests); start += batchLimit {
		end := min(start+batchLimit, len(requests))
		if err := c.writeBatch(ctx, index, requests[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) writeBatch(ctx context.Context, index string, batch []types.WriteRequest) error {
	pending := map[string][]types.WriteRequest{index: batch}

	for attempt := 0; ; attempt++ {
		out, err := c.api.BatchWriteItem(ctx, &sdk.BatchWriteItemInput{RequestItems: pending})
		if err != nil {
			if !isRetryableError(err) || attempt >= c.opts.MaxRetries {
				return tableError(err, index, "BatchWriteItem")
			}
		} else {
			if len(out.UnprocessedItems[index]) == 0 {
				return nil
			}
			pending = out.UnprocessedItems
			if attempt >= c.opts.MaxRetries {
				return fmt.Errorf("%d items left unprocessed after %d retries", len(pending[index]), c.opts.MaxRetries)
			}
		}
		if err := c.backoff(ctx, attempt); err != nil {
			return err
		}
	}
}

func (c *Client) backoff(ctx context.Context, attempt int) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Duration(attempt+1) * c.opts.RetryBackoff):
		return nil
	}
}

// isRetryableError determines if a DynamoDB error is retryable
func isRetryableError(err error) bool {
	var throughput *types.ProvisionedThroughputExceededException
	var limit *types.RequestLimitExceeded
	var internal *types.InternalServerError
	if errors.As(err, &throughput) || errors.As(err, &limit) || errors.As(err, &internal) {
		return true
	}

	// Check for AWS SDK retryable errors
	var retryable interface{ RetryableError() bool }
	if errors.As(err, &retryable) {
		return retryable.RetryableError()
	}
	return false
}
