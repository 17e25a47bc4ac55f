package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/cli"
)

func TestRootCommand(t *testing.T) {
	root := cli.NewRootCmd(version)
	require.NotNil(t, root)
	assert.Equal(t, "carboncam", root.Use)
	assert.Equal(t, "dev", root.Version)

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "calculate", "batch", "template", "machines", "materials"})
}
