package testutil

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"path/filepath"
	"time"

	"github.com/mr-tron/base58"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/governance-client/pkg/solana"
)

const (
	validatorImage   = "solanalabs/solana"
	validatorVersion = "v1.18.26"
	validatorRPCPort = "8899/tcp"

	containerAutoKill = 300 * time.Second
	programMountPath  = "/programs"
)

// ProgramBinary is a program deployed into the local validator at genesis.
// The upgrade authority matters for instructions that check it, such as
// create_redeemer.
type ProgramBinary struct {
	ID               ed25519.PublicKey
	Path             string
	UpgradeAuthority ed25519.PublicKey
}

// StartLocalValidator runs solana-test-validator in a container with the
// provided programs loaded and returns its RPC endpoint. All program binaries
// must live in the same host directory.
func StartLocalValidator(pool *dockertest.Pool, programs ...ProgramBinary) (endpoint string, teardown func(), err error) {
	teardown = func() {}

	cmd := []string{
		"solana-test-validator",
		"--reset",
		"--quiet",
		"--bind-address", "0.0.0.0",
		"--rpc-port", "8899",
	}

	var mounts []string
	var programDir string
	for _, program := range programs {
		dir, file := filepath.Split(program.Path)
		dir = filepath.Clean(dir)
		if programDir == "" {
			programDir = dir
			mounts = append(mounts, fmt.Sprintf("%s:%s", dir, programMountPath))
		} else if programDir != dir {
			return "", teardown, errors.Errorf("program %s is not in %s", program.Path, programDir)
		}

		cmd = append(
			cmd,
			"--upgradeable-program",
			base58.Encode(program.ID),
			filepath.Join(programMountPath, file),
			base58.Encode(program.UpgradeAuthority),
		)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository:   validatorImage,
		Tag:          validatorVersion,
		Cmd:          cmd,
		Mounts:       mounts,
		ExposedPorts: []string{validatorRPCPort},
	}, func(config *docker.HostConfig) {
		// set AutoRemove to true so that stopped container goes away by itself
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return "", teardown, errors.Wrap(err, "failed to start validator")
	}

	// Expire() never returns an error
	_ = resource.Expire(uint(containerAutoKill.Seconds()))

	log := logrus.StandardLogger().WithField("method", "StartLocalValidator")

	teardown = func() {
		if err := pool.Purge(resource); err != nil {
			log.WithError(err).Error("failed to cleanup validator resource")
		}
	}

	endpoint = fmt.Sprintf("http://localhost:%s", resource.GetPort(validatorRPCPort))
	client := solana.New(endpoint)

	pool.MaxWait = 2 * time.Minute
	err = pool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		_, err := client.GetSlot(ctx, solana.CommitmentConfirmed)
		return err
	})
	if err != nil {
		teardown()
		return "", func() {}, errors.Wrap(err, "timed out waiting for validator to become available")
	}

	return endpoint, teardown, nil
}
