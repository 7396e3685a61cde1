// dashctl is a command-line client for the private dashboard.
//
// Usage:
//
//	dashctl [-url URL] [-key KEY] [-timeout 10s] [-config dashctl.toml] <command> [args]
//
// Commands: health, stats, stat <key>, history <key>, submit k=v ...,
// delete <key>, prune, alerts, keys.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/thepack/dashboard-go/pkg/dashboard"
)

func main() {
	var (
		baseURL    = flag.String("url", "", "dashboard base URL (or DASHBOARD_URL)")
		writeKey   = flag.String("key", "", "write key for mutating commands (or DASHBOARD_KEY)")
		timeout    = flag.Duration("timeout", 0, "request timeout")
		configPath = flag.String("config", "", "TOML config file")
		period     = flag.String("period", "", "history period: 24h, 7d, 30d, 90d")
		start      = flag.String("start", "", "history range start (ISO-8601 or YYYY-MM-DD)")
		end        = flag.String("end", "", "history range end (ISO-8601 or YYYY-MM-DD)")
		limit      = flag.Int("limit", 0, "max alerts to list (1-500)")
		alertKey   = flag.String("alert-key", "", "filter alerts by metric key")
	)
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := resolveConfig(*baseURL, *writeKey, *timeout, *configPath)
	if err != nil {
		log.Fatal(err)
	}
	client, err := dashboard.New(cfg)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout+time.Second)
	defer cancel()

	if err := run(ctx, client, args, runOptions{
		period:   *period,
		start:    *start,
		end:      *end,
		limit:    *limit,
		alertKey: *alertKey,
	}); err != nil {
		log.Fatal(err)
	}
}

type runOptions struct {
	period, start, end string
	limit              int
	alertKey           string
}

func run(ctx context.Context, client *dashboard.Client, args []string, opts runOptions) error {
	command, rest := args[0], args[1:]

	switch command {
	case "health":
		h, err := client.Health(ctx)
		if err != nil {
			return err
		}
		return printJSON(h)

	case "stats":
		stats, err := client.Stats(ctx)
		if err != nil {
			return err
		}
		return printJSON(stats)

	case "stat":
		if len(rest) != 1 {
			return fmt.Errorf("usage: dashctl stat <key>")
		}
		s, err := client.Stat(ctx, rest[0])
		if err != nil {
			return err
		}
		if s == nil {
			return fmt.Errorf("key %q not tracked", rest[0])
		}
		return printJSON(s)

	case "history":
		if len(rest) != 1 {
			return fmt.Errorf("usage: dashctl history <key>")
		}
		points, err := client.History(ctx, rest[0], dashboard.HistoryOptions{
			Period: opts.period,
			Start:  opts.start,
			End:    opts.end,
		})
		if err != nil {
			return err
		}
		return printJSON(points)

	case "submit":
		if len(rest) == 0 {
			return fmt.Errorf("usage: dashctl submit key=value ...")
		}
		values, err := parsePairs(rest)
		if err != nil {
			return err
		}
		accepted, err := client.SubmitValues(ctx, values)
		if err != nil {
			return err
		}
		fmt.Printf("accepted %d of %d\n", accepted, len(values))
		return nil

	case "delete":
		if len(rest) != 1 {
			return fmt.Errorf("usage: dashctl delete <key>")
		}
		deleted, err := client.Delete(ctx, rest[0])
		if err != nil {
			return err
		}
		fmt.Printf("deleted %d points\n", deleted)
		return nil

	case "prune":
		result, err := client.Prune(ctx)
		if err != nil {
			return err
		}
		return printJSON(result)

	case "alerts":
		alerts, err := client.Alerts(ctx, dashboard.AlertOptions{
			Key:   opts.alertKey,
			Limit: opts.limit,
		})
		if err != nil {
			return err
		}
		return printJSON(alerts)

	case "keys":
		keys, err := client.Keys(ctx)
		if err != nil {
			return err
		}
		for _, k := range keys {
			fmt.Println(k)
		}
		return nil

	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

// parsePairs turns "key=value" arguments into a submission map.
func parsePairs(args []string) (map[string]float64, error) {
	values := make(map[string]float64, len(args))
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %q", key, raw)
		}
		values[key] = value
	}
	return values, nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
