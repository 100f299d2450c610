package main

import (
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/code-payments/governance-client/pkg/governance/app"
	"github.com/code-payments/governance-client/pkg/governance/transaction"
)

var (
	computeUnitLimit = flag.Uint("compute-unit-limit", 0, "compute unit limit per transaction, 0 to use the cluster default")
	computeUnitPrice = flag.Uint64("compute-unit-price", 0, "priority fee in micro-lamports per compute unit")
)

func main() {
	// Flags are parsed by Run, before the assembler is built
	computeBudget := app.WithAssemblerOption(func(a *transaction.Assembler) {
		transaction.WithComputeBudget(uint32(*computeUnitLimit), *computeUnitPrice)(a)
	})

	if err := app.Run(computeBudget); err != nil {
		logrus.WithError(err).Error("error running scenario")
		os.Exit(1)
	}
}
