// Command reviewer is a terminal client for the resume review API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/sinedd777/resume-reviewer/internal/client"
	"github.com/sinedd777/resume-reviewer/internal/config"
	"github.com/sinedd777/resume-reviewer/internal/logging"
	"github.com/sinedd777/resume-reviewer/internal/vote"
	"github.com/sinedd777/resume-reviewer/redis"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const sessionTTL = 24 * time.Hour

var (
	apiURL       string
	sessionID    string
	sessionRedis string
	outputFormat string
	verbose      bool

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:           "reviewer",
	Short:         "Upload resumes and review them with positioned comments",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch outputFormat {
		case "table", "json", "yaml":
		default:
			return fmt.Errorf("unknown output format %q", outputFormat)
		}
		if verbose {
			l, err := logging.New("development")
			if err != nil {
				return err
			}
			logger = l
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", config.GetEnv("REVIEWER_API", "http://localhost:8080"), "API base URL")
	rootCmd.PersistentFlags().StringVar(&sessionID, "session", config.GetEnv("REVIEWER_SESSION", "default"), "viewer session used to remember votes")
	rootCmd.PersistentFlags().StringVar(&sessionRedis, "session-redis", config.GetEnv("REVIEWER_SESSION_REDIS", ""), "keep vote sessions in this Redis instead of on disk")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json or yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
}

func main() {
	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newClient() *client.Client {
	return client.NewClient(apiURL, 30*time.Second)
}

// newSessionStore returns the Redis store when --session-redis is set and a
// file store under the user cache dir otherwise.
func newSessionStore(ctx context.Context) (vote.SessionStore, error) {
	if sessionRedis != "" {
		rc := redis.InitRedis(ctx, sessionRedis, logger)
		if rc == nil {
			return nil, fmt.Errorf("redis at %s is not reachable", sessionRedis)
		}
		return vote.NewRedisSessionStore(rc, sessionID, sessionTTL), nil
	}

	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return vote.NewFileSessionStore(filepath.Join(dir, "resume-reviewer", "sessions"), sessionID), nil
}

// render prints v as JSON or YAML, or calls table for the default format.
func render(w io.Writer, v any, table func(tw *tabwriter.Writer)) error {
	switch outputFormat {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(toYAMLValue(v)); err != nil {
			return err
		}
		return enc.Close()
	default:
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		table(tw)
		return tw.Flush()
	}
}

// toYAMLValue round-trips v through JSON so YAML output uses the JSON field
// names.
func toYAMLValue(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}
