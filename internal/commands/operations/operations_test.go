// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operations

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/swapflow/internal/commands/shared"
	"github.com/tombee/swapflow/internal/operation"
)

func TestOperations_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run(&buf, operation.NewRegistry(), nil))

	out := buf.String()
	for _, id := range operation.IDs {
		assert.Contains(t, out, string(id))
	}
	assert.Contains(t, out, "OPERATION")
}

func TestOperations_Describe(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run(&buf, operation.NewRegistry(), []string{"quote"}))
	assert.Contains(t, buf.String(), "tradeType")
	assert.Contains(t, buf.String(), "EXACT_IN")
}

func TestOperations_Unknown(t *testing.T) {
	err := run(&bytes.Buffer{}, operation.NewRegistry(), []string{"doesNotExist"})
	require.Error(t, err)
	assert.Equal(t, shared.ExitInvalidInput, shared.ExitCode(err))
	assert.Equal(t, operation.ErrorTypeUnknownOperation, operation.TypeOf(err))
}

func TestOperations_JSON(t *testing.T) {
	_, _, jsonFlag, _ := shared.RegisterFlagPointers()
	*jsonFlag = true
	defer shared.ResetFlagsForTest()

	var buf bytes.Buffer
	require.NoError(t, run(&buf, operation.NewRegistry(), []string{"send"}))

	var resp Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "operations", resp.Command)
	require.Len(t, resp.Operations, 1)

	send := resp.Operations[0]
	assert.Equal(t, "send", send.ID)
	assert.True(t, send.Mutating)
	require.Len(t, send.Params, 2)
	assert.Equal(t, "xdr", send.Params[0].Name)
	assert.True(t, send.Params[0].Required)
	assert.Equal(t, false, send.Params[1].Default)
}
