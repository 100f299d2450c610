package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNoApplication(t *testing.T) {
	ctx := NewContext(context.Background(), nil)

	ctx, txn := StartTransaction(ctx, "scenario")
	assert.Nil(t, txn)
	txn.End()

	tracer := TraceMethodCall(ctx, "transaction", "Submit")
	assert.Nil(t, tracer)

	tracer.AddAttribute("key", "value")
	tracer.AddAttributes(map[string]interface{}{"key": "value"})
	tracer.OnError(errors.New("failure"))
	tracer.End()

	RecordCount(ctx, "count", 1)
	RecordDuration(ctx, "duration", time.Second)
	RecordEvent(ctx, "event", map[string]interface{}{"key": "value"})
}

func TestFlattenEntry(t *testing.T) {
	logger := logrus.New()

	e := logrus.NewEntry(logger)
	e.Message = "plain"
	assert.Equal(t, "plain", flattenEntry(e))

	e = logger.WithFields(logrus.Fields{"step": "lock_tokens"}).WithError(errors.New("boom"))
	e.Message = "step failed"
	assert.Equal(t, `message="step failed", error="boom", data={"step":"lock_tokens"}`, flattenEntry(e))

	e = logger.WithField("step", "accept")
	e.Message = "ok"
	assert.Equal(t, `message="ok", error=<nil>, data={"step":"accept"}`, flattenEntry(e))
}
