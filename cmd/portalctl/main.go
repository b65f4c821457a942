// Command portalctl queries the article backend from a terminal: tracking
// lookups, the filtered article list and the audit log.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/article-review-portal/internal/apiclient"
	"github.com/article-review-portal/internal/config"
	"github.com/article-review-portal/internal/listing"
	"github.com/article-review-portal/internal/repository"
	"github.com/article-review-portal/internal/service"
	"github.com/article-review-portal/internal/status"
	"github.com/article-review-portal/pkg/logger"
	"github.com/joho/godotenv"
)

const usage = `usage: portalctl [-backend URL] <command> [flags]

commands:
  track <code>                     show an article by tracking code
  articles [-q s] [-status s] [-sort key]
                                   list articles
  audit                            show the audit log
`

func main() {
	_ = godotenv.Load()
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "portalctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	global := flag.NewFlagSet("portalctl", flag.ContinueOnError)
	backendURL := global.String("backend", envOr("BACKEND_URL", "http://localhost:5000/api"), "backend API base URL")
	timeout := global.Duration("timeout", 15*time.Second, "request timeout")
	aliases := global.String("aliases", os.Getenv("STATUS_ALIASES_FILE"), "status alias file")
	global.Usage = func() { fmt.Fprint(global.Output(), usage) }
	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		global.Usage()
		return fmt.Errorf("missing command")
	}

	normalizer, err := status.LoadNormalizer(*aliases)
	if err != nil {
		return err
	}
	log := logger.NewWithWriter(os.Stderr, envOr("LOG_LEVEL", "warn"), true)
	client := apiclient.New(&config.BackendConfig{
		BaseURL: strings.TrimRight(*backendURL, "/"),
		Timeout: *timeout,
	}, log)
	repos := repository.New(client)
	services := service.NewServices(repos, normalizer, log)

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	cmd, rest := global.Arg(0), global.Args()[1:]
	switch cmd {
	case "track":
		if len(rest) != 1 {
			return fmt.Errorf("track needs exactly one tracking code")
		}
		article, err := services.Articles.Track(ctx, rest[0])
		if err != nil {
			return err
		}
		renderArticle(out, article)
		return nil

	case "articles":
		fs := flag.NewFlagSet("articles", flag.ContinueOnError)
		var opts listing.Options
		fs.StringVar(&opts.Query, "q", "", "title search")
		fs.StringVar(&opts.Status, "status", "", "canonical status filter")
		fs.StringVar(&opts.Sort, "sort", "", "sort key: "+strings.Join(listing.SortKeys, ", "))
		if err := fs.Parse(rest); err != nil {
			return err
		}
		articles, err := services.Articles.List(ctx, opts)
		if err != nil {
			return err
		}
		renderArticles(out, articles)
		return nil

	case "audit":
		logs, err := repos.Admin.AuditLogs(ctx)
		if err != nil {
			return err
		}
		renderAuditLogs(out, logs)
		return nil

	default:
		global.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
