package testutil

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Importing testutil routes the standard logger to io.Discard unless the test
// binary runs with -test.v, in which case every level is printed.
func init() {
	logrus.SetLevel(logrus.TraceLevel)

	for _, arg := range os.Args[1:] {
		switch arg {
		case "-test.v", "-test.v=true", "-test.v=test2json":
			return
		}
	}
	logrus.SetOutput(io.Discard)
}
