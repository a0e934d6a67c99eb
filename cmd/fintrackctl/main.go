// fintrackctl is a small command-line client for the fintrack API.
// It keeps a session file under the user config dir, so login survives
// between invocations.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dmatos/fintrack-api-go/internal/client"
	"github.com/dmatos/fintrack-api-go/internal/config"
	"github.com/dmatos/fintrack-api-go/internal/domain"
	"github.com/dmatos/fintrack-api-go/internal/service"
)

const usage = `usage: fintrackctl <command> [flags]

commands:
  register    create an account and log in
  login       log in with email and password
  logout      discard the local session
  whoami      show the logged-in profile
  list        list transactions, newest first
  add         record a transaction
  rm          delete a transaction by id
  summary     show the monthly summary
  categories  list the category catalog

environment:
  FINTRACK_API_URL  base URL of the API (default http://localhost:8080)
`

func main() {
	_ = config.LoadDotEnv(".env")

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	baseURL := os.Getenv("FINTRACK_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	sessions, err := client.NewSessionStore("")
	if err != nil {
		fatal("session store: %v", err)
	}
	api, err := client.New(baseURL, sessions)
	if err != nil {
		fatal("client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch os.Args[1] {
	case "register":
		cmdRegister(ctx, api, os.Args[2:])
	case "login":
		cmdLogin(ctx, api, os.Args[2:])
	case "logout":
		cmdLogout(api)
	case "whoami":
		cmdWhoami(ctx, api)
	case "list":
		cmdList(ctx, api)
	case "add":
		cmdAdd(ctx, api, os.Args[2:])
	case "rm":
		cmdRemove(ctx, api, os.Args[2:])
	case "summary":
		cmdSummary(ctx, api, os.Args[2:])
	case "categories":
		cmdCategories(ctx, api)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func cmdRegister(ctx context.Context, api *client.Client, args []string) {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	if *name == "" || *email == "" || *password == "" {
		fatal("register: -name, -email and -password are required")
	}

	session, err := api.Register(ctx, *name, *email, *password)
	if err != nil {
		fatal("%v", err)
	}
	fmt.Printf("registered and logged in as %s <%s>\n", session.User.Name, session.User.Email)
}

func cmdLogin(ctx context.Context, api *client.Client, args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	if *email == "" || *password == "" {
		fatal("login: -email and -password are required")
	}

	session, err := api.Login(ctx, *email, *password)
	if err != nil {
		fatal("%v", err)
	}
	fmt.Printf("logged in as %s <%s>\n", session.User.Name, session.User.Email)
}

func cmdLogout(api *client.Client) {
	if err := api.Logout(); err != nil {
		fatal("%v", err)
	}
	fmt.Println("logged out")
}

func cmdWhoami(ctx context.Context, api *client.Client) {
	requireLogin(api)
	profile, err := api.Profile(ctx)
	if err != nil {
		fatal("%v", err)
	}
	fmt.Printf("%s <%s> (role: %s)\n", profile.Name, profile.Email, profile.Role)
}

func cmdList(ctx context.Context, api *client.Client) {
	requireLogin(api)
	list, err := api.ListTransactions(ctx)
	if err != nil {
		fatal("%v", err)
	}
	if len(list) == 0 {
		fmt.Println("no transactions")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tTITLE\tCATEGORY\tAMOUNT\tID")
	for _, tx := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%+.2f\t%s\n",
			tx.Date.Format("2006-01-02"), tx.Title, tx.Category, tx.Amount, tx.ID)
	}
	w.Flush()
}

func cmdAdd(ctx context.Context, api *client.Client, args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	title := fs.String("title", "", "transaction title")
	amount := fs.Float64("amount", 0, "amount (sign is derived from type)")
	txType := fs.String("type", "expense", "income or expense")
	category := fs.String("category", "", "category id (see categories)")
	date := fs.String("date", "", "date as YYYY-MM-DD (default today)")
	fs.Parse(args)

	requireLogin(api)

	req := &domain.CreateTransactionRequest{
		Title:    *title,
		Amount:   *amount,
		Type:     *txType,
		Category: *category,
	}
	if *date != "" {
		d, err := time.Parse("2006-01-02", *date)
		if err != nil {
			fatal("add: invalid -date %q, want YYYY-MM-DD", *date)
		}
		req.Date = d
	}

	tx, err := api.CreateTransaction(ctx, req)
	if err != nil {
		fatal("%v", err)
	}
	fmt.Printf("recorded %s: %+.2f (%s)\n", tx.Title, tx.Amount, tx.ID)
}

func cmdRemove(ctx context.Context, api *client.Client, args []string) {
	if len(args) != 1 {
		fatal("usage: fintrackctl rm <transaction-id>")
	}
	requireLogin(api)

	if err := api.DeleteTransaction(ctx, args[0]); err != nil {
		fatal("%v", err)
	}
	fmt.Println("removed")
}

func cmdSummary(ctx context.Context, api *client.Client, args []string) {
	now := time.Now().UTC()
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	month := fs.Int("month", int(now.Month()), "month (1-12)")
	year := fs.Int("year", now.Year(), "year")
	fs.Parse(args)

	requireLogin(api)

	dash, err := api.FetchDashboard(ctx, *month, *year)
	if err != nil {
		fatal("%v", err)
	}
	s := dash.Summary

	fmt.Printf("Summary for %04d-%02d\n\n", s.Year, s.Month)
	printGroup("Income", s.Income)
	printGroup("Expense", s.Expense)
	fmt.Printf("Balance: %+.2f\n", s.Balance)
}

func printGroup(label string, group domain.SummaryGroup) {
	fmt.Printf("%s: %+.2f\n", label, group.Total)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, cat := range group.Categories {
		fmt.Fprintf(w, "  %s %s\t%+.2f\t%d%%\t(%d)\n",
			cat.Icon, cat.Name, cat.Total,
			service.Percentage(cat.Total, group.Total), cat.Count)
	}
	w.Flush()
	fmt.Println()
}

func cmdCategories(ctx context.Context, api *client.Client) {
	categories, err := api.Categories(ctx)
	if err != nil {
		fatal("%v", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE")
	for _, c := range categories {
		kind := "expense"
		if c.Income {
			kind = "income"
		}
		if c.ID == "other" {
			kind = "both"
		}
		fmt.Fprintf(w, "%s\t%s %s\t%s\n", c.ID, c.Icon, c.Name, kind)
	}
	w.Flush()
}

func requireLogin(api *client.Client) {
	if !api.Session().IsAuthenticated {
		fatal("not logged in; run fintrackctl login first")
	}
}
