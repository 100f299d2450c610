package app

import (
	"github.com/code-payments/governance-client/pkg/governance/scenario"
	"github.com/code-payments/governance-client/pkg/governance/transaction"
)

// Option configures the run performed by Run().
type Option func(o *opts)

type opts struct {
	params           scenario.Parameters
	assemblerOptions []transaction.Option
}

// WithParameters replaces the default lifecycle parameters.
func WithParameters(params scenario.Parameters) Option {
	return func(o *opts) {
		o.params = params
	}
}

// WithAssemblerOption configures the transaction assembler used for every
// step.
//
// Options are applied in addition order.
func WithAssemblerOption(option transaction.Option) Option {
	return func(o *opts) {
		o.assemblerOptions = append(o.assemblerOptions, option)
	}
}
