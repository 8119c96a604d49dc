package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var disconnectCmd = &cobra.Command{
	Use:   "disconnect <session-agent>",
	Short: "Remove a stale chat registration from Athyr",
	Long: `Disconnect a chat client registration from the Athyr server.

Every chat session registers with Athyr under its session name. Use this
to clean up the registration left behind when athyr-chat was killed
without a graceful shutdown.

Accepts a full agent UUID, a short ID prefix or the session name.

Example:
  athyr-chat disconnect abc12345-1234-5678-9abc-def012345678
  athyr-chat disconnect abc12345 --api http://localhost:8080
  athyr-chat disconnect athyr-chat`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		apiServer, _ := cmd.Flags().GetString("api")
		api := &apiClient{
			base: strings.TrimRight(apiServer, "/"),
			http: &http.Client{Timeout: 10 * time.Second},
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		agentID, err := api.resolveAgentID(ctx, args[0])
		if err != nil {
			return err
		}
		if err := api.disconnect(ctx, agentID); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Disconnected %s\n", agentID)
		return nil
	},
}

func init() {
	disconnectCmd.Flags().String("api", "http://localhost:8080", "Athyr HTTP API server")
	rootCmd.AddCommand(disconnectCmd)
}

// apiClient talks to the Athyr HTTP API.
type apiClient struct {
	base string
	http *http.Client
}

func (c *apiClient) disconnect(ctx context.Context, agentID string) error {
	body, err := json.Marshal(map[string]string{"agent_id": agentID})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/v1/disconnect", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var result struct {
		OK      bool   `json:"ok"`
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return fmt.Errorf("invalid response: %s", string(respBody))
	}
	if result.Code != 0 {
		return fmt.Errorf("disconnect failed: %s", result.Message)
	}
	return nil
}

// resolveAgentID turns a UUID, ID prefix or registered name into a full ID.
func (c *apiClient) resolveAgentID(ctx context.Context, idInput string) (string, error) {
	if id, err := uuid.Parse(idInput); err == nil {
		return id.String(), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/v1/agents", nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to list agents: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Agents []struct {
			ID   string `json:"id"`
			Card struct {
				Name string `json:"name"`
			} `json:"card"`
		} `json:"agents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to parse agents: %w", err)
	}

	var matches []string
	for _, agent := range result.Agents {
		if strings.HasPrefix(agent.ID, idInput) || agent.Card.Name == idInput {
			matches = append(matches, agent.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no agent found matching '%s'", idInput)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("multiple agents match '%s', be more specific", idInput)
	}
}
