package metrics

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/sirupsen/logrus"
)

// LogFormatter wraps a logrus.Formatter, forwarding every entry to New Relic
// with its fields folded into the message and enriching the local output
// with linking metadata. Entries logged with a context that carries a
// transaction are attached to that transaction.
type LogFormatter struct {
	app   *newrelic.Application
	inner logrus.Formatter
}

func NewLogFormatter(app *newrelic.Application, inner logrus.Formatter) LogFormatter {
	return LogFormatter{app: app, inner: inner}
}

func (f LogFormatter) Format(e *logrus.Entry) ([]byte, error) {
	formatted, err := f.inner.Format(e)
	if err != nil {
		return nil, err
	}
	buf := bytes.NewBuffer(bytes.TrimRight(formatted, "\n"))

	record := newrelic.LogData{
		Severity: e.Level.String(),
		Message:  flattenEntry(e),
	}

	var txn *newrelic.Transaction
	if e.Context != nil {
		txn = newrelic.FromContext(e.Context)
	}

	if txn != nil {
		txn.RecordLog(record)
		err = newrelic.EnrichLog(buf, newrelic.FromTxn(txn))
	} else {
		f.app.RecordLog(record)
		err = newrelic.EnrichLog(buf, newrelic.FromApp(f.app))
	}
	if err != nil {
		return nil, err
	}

	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// flattenEntry renders message, error and the remaining fields on one line,
// since New Relic log records carry no structured attributes.
func flattenEntry(e *logrus.Entry) string {
	if len(e.Data) == 0 {
		return e.Message
	}

	errText := "<nil>"
	fields := make(map[string]interface{}, len(e.Data))
	for k, v := range e.Data {
		if k != logrus.ErrorKey {
			fields[k] = v
			continue
		}
		if err, ok := v.(error); ok {
			errText = fmt.Sprintf("%q", err.Error())
		}
	}

	encoded, err := json.Marshal(fields)
	if err != nil {
		return e.Message
	}
	return fmt.Sprintf("message=%q, error=%s, data=%s", e.Message, errText, encoded)
}
