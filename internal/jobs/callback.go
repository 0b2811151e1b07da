package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/llmrank/crawlengine/internal/models"
	"github.com/llmrank/crawlengine/internal/signing"
)

// callbackTimeout bounds a single outbound callback POST. It is never
// retried — a failed callback is logged and the batch is discarded.
const callbackTimeout = 30 * time.Second

// emitBatch POSTs a CrawlResultBatch to the job's callback URL, HMAC-signed
// with the shared secret. Failures are logged, not retried, and not
// requeued — matching the source's no-durable-outbox behavior.
func (r *Runner) emitBatch(ctx context.Context, batch *models.CrawlResultBatch) {
	if r.Payload.CallbackURL == "" {
		return
	}
	body, err := json.Marshal(batch)
	if err != nil {
		r.Logger.Warn().Err(err).Msg("failed to marshal result batch")
		return
	}

	if err := postSigned(ctx, r.Payload.CallbackURL, r.Config.SharedSecret, body, callbackTimeout); err != nil {
		r.Logger.Warn().Err(err).Int("pages", len(batch.Pages)).Msg("callback delivery failed")
	}
}

func postSigned(ctx context.Context, url, secret string, body []byte, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	now := time.Now().Unix()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature", signing.Header(secret, now, body))
	req.Header.Set("X-Timestamp", strconv.FormatInt(now, 10))

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return errBadStatus(resp.StatusCode)
	}
	return nil
}

type errBadStatus int

func (e errBadStatus) Error() string {
	return fmt.Sprintf("jobs: endpoint returned status %d", int(e))
}
