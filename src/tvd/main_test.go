package main

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/goleak"
)

func TestDependenciesAreSatisfied(t *testing.T) {
	require.NoError(t, fx.ValidateApp(opts()))
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
