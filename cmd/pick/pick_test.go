package pick

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjulian5/prdash/internal/common"
	"github.com/bjulian5/prdash/internal/model"
	"github.com/bjulian5/prdash/internal/testutil"
	"github.com/bjulian5/prdash/internal/ui"
)

func TestPick(t *testing.T) {
	testCases := []struct {
		desc        string
		selectFn    func(records []model.Record) (*model.Record, error)
		contains    string
		expectError bool
	}{
		{
			desc: "shows the chosen record",
			selectFn: func(records []model.Record) (*model.Record, error) {
				return &records[1], nil
			},
			contains: "Pull Request #1",
		},
		{
			desc:     "cancelled",
			selectFn: func(records []model.Record) (*model.Record, error) { return nil, nil },
			contains: "No pull request selected",
		},
		{
			desc: "finder error",
			selectFn: func(records []model.Record) (*model.Record, error) {
				return nil, errors.New("no terminal")
			},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			server := testutil.NewGitHubServer(t)
			server.AddPulls("octo/repo",
				testutil.PR(2, "Ab#7654321 Fix login", "alice", "2024-03-01T10:00:00Z"),
				testutil.PR(1, "Add search", "bob", "2024-02-01T10:00:00Z", testutil.Body("Adds search")),
			)

			var out bytes.Buffer
			t.Cleanup(ui.SetOutput(&out, &out))

			clients, err := common.InitClients("")
			require.NoError(t, err)

			c := &Command{Repo: "octo/repo", Select: tc.selectFn, Clients: clients}
			err = c.Run(context.Background())
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out.String(), tc.contains)
		})
	}
}

func TestPick_EmptyRepository(t *testing.T) {
	server := testutil.NewGitHubServer(t)
	server.AddPulls("octo/repo")

	var out bytes.Buffer
	t.Cleanup(ui.SetOutput(&out, &out))

	clients, err := common.InitClients("")
	require.NoError(t, err)

	c := &Command{
		Repo: "octo/repo",
		Select: func(records []model.Record) (*model.Record, error) {
			t.Fatal("finder should not open without records")
			return nil, nil
		},
		Clients: clients,
	}
	require.NoError(t, c.Run(context.Background()))
	assert.Contains(t, out.String(), "No pull requests found")
}
