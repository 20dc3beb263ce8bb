package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorian-inc/schematic/pkg/serve"
	"github.com/praetorian-inc/schematic/pkg/solver"
	"github.com/praetorian-inc/schematic/pkg/store"
)

func TestRunServe(t *testing.T) {
	serveOutput = store.MemoryPath
	serveIncremental = false
	serveWorkers = 2

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader(`{"type":"solve","payload":{"content":"12.\n.*.\n..3","source":"stdin"}}` + "\n"))
	cmd.SetOut(&out)

	require.NoError(t, runServe(cmd, nil))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	var resp serve.Response
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &resp))
	require.True(t, resp.Success, resp.Error)

	var result solver.SolveResult
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, uint64(15), result.Report.PartNumberSum)
	assert.Equal(t, uint64(36), result.Report.GearRatioSum)
}
