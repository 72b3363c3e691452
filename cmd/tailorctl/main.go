// tailorctl is the scriptable companion to the interactive console:
// one-shot commands for sessions, deliveries, receipts and exports.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"tailor-console/internal/api"
	"tailor-console/internal/config"
	"tailor-console/internal/core"
	"tailor-console/internal/printing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	client := api.New(cfg.ClientConfig())
	ctx := context.Background()

	args := os.Args[1:]
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	switch args[0] {
	case "login":
		runLogin(ctx, client, args[1:])
	case "logout":
		if err := client.Auth.Logout(ctx); err != nil {
			log.Fatalf("Logout failed: %v", err)
		}
		fmt.Println("Logged out.")
	case "me":
		user, err := client.Auth.Me(ctx)
		if err != nil {
			log.Fatalf("Failed to load profile: %v", err)
		}
		fmt.Printf("%s <%s> (%s)\n", user.Name, user.Email, user.Role)

	case "deliveries", "del":
		runDeliveries(ctx, client, args[1:])
	case "stats":
		stats, err := client.JobOrders.Stats(ctx)
		if err != nil {
			log.Fatalf("Failed to load stats: %v", err)
		}
		printStats(stats)

	case "set-amount":
		runSetAmount(ctx, client, args[1:])
	case "set-status":
		runSetStatus(ctx, client, args[1:])
	case "schedule":
		runSchedule(ctx, client, args[1:])
	case "block":
		id := mustID(args[1:], "Usage: tailorctl block <id>")
		row, err := client.JobOrders.ToggleBlock(ctx, id)
		if err != nil {
			log.Fatalf("Failed to toggle block: %v", err)
		}
		state := "unblocked"
		if row.IsBlocked {
			state = "blocked"
		}
		fmt.Printf("%s is now %s.\n", row.DisplayID(), state)

	case "receipts":
		rows, err := client.Receipts.List(ctx, nil)
		if err != nil {
			log.Fatalf("Failed to load receipts: %v", err)
		}
		printReceipts(rows)
	case "companies":
		rows, err := client.Companies.List(ctx, nil)
		if err != nil {
			log.Fatalf("Failed to load companies: %v", err)
		}
		printCompanies(rows)
	case "customers":
		query := ""
		if len(args) > 1 {
			query = args[1]
		}
		rows, err := client.Customers.Search(ctx, query)
		if err != nil {
			log.Fatalf("Failed to load customers: %v", err)
		}
		printCustomers(rows)
	case "inventory":
		rows, err := client.Inventory.Materials(ctx, nil)
		if err != nil {
			log.Fatalf("Failed to load materials: %v", err)
		}
		printMaterials(rows)
	case "sales":
		rows, err := client.Sales.List(ctx, nil)
		if err != nil {
			log.Fatalf("Failed to load sales: %v", err)
		}
		printSales(rows)
	case "services":
		rows, err := client.Services.List(ctx, nil)
		if err != nil {
			log.Fatalf("Failed to load services: %v", err)
		}
		printServices(rows)

	case "export":
		runExport(ctx, client, args[1:])

	default:
		usage()
		os.Exit(2)
	}
}

func runLogin(ctx context.Context, client *api.Client, args []string) {
	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		fmt.Print("Email: ")
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')
		email = strings.TrimSpace(line)
	}

	fmt.Print("Password: ")
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	password := strings.TrimRight(line, "\r\n")

	session, err := client.Auth.Login(ctx, email, password)
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}
	fmt.Printf("Signed in as %s.\n", session.User.Email)
}

func runDeliveries(ctx context.Context, client *api.Client, args []string) {
	fs := flag.NewFlagSet("deliveries", flag.ExitOnError)
	status := fs.String("status", "", "filter by status (pending|in_progress|completed|delivered)")
	blocked := fs.String("blocked", "unblocked", "blocked filter (unblocked|blocked|all)")
	search := fs.String("search", "", "free-text search over customer and order number")
	from := fs.String("from", "", "from date (YYYY-MM-DD)")
	to := fs.String("to", "", "to date (YYYY-MM-DD)")
	fs.Parse(args)

	filter := api.DeliveryFilter{
		Status:  core.DeliveryStatus(*status),
		Blocked: api.BlockedFilter(*blocked),
		Search:  *search,
	}
	if *from != "" {
		d, err := time.Parse("2006-01-02", *from)
		if err != nil {
			log.Fatalf("invalid -from: %v", err)
		}
		filter.From = d
	}
	if *to != "" {
		d, err := time.Parse("2006-01-02", *to)
		if err != nil {
			log.Fatalf("invalid -to: %v", err)
		}
		filter.To = d
	}

	rows, err := client.JobOrders.Deliveries(ctx, filter)
	if err != nil {
		log.Fatalf("Failed to load deliveries: %v", err)
	}
	printDeliveries(rows)
}

func runSetAmount(ctx context.Context, client *api.Client, args []string) {
	if len(args) < 2 {
		log.Fatal("Usage: tailorctl set-amount <id> <amount>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		log.Fatalf("invalid id: %v", err)
	}
	amount := core.ParseAmount(args[1])

	current, err := client.JobOrders.Get(ctx, id)
	if err != nil {
		log.Fatalf("Failed to load job order: %v", err)
	}
	row, err := client.JobOrders.UpdateDelivery(ctx, id, amount, current.Status)
	if err != nil {
		log.Fatalf("Failed to update received_amount: %v", err)
	}
	fmt.Printf("%s received %s, balance %s.\n",
		row.DisplayID(), row.ReceivedAmount.StringFixed(2), row.BalanceAmount.StringFixed(2))
}

func runSetStatus(ctx context.Context, client *api.Client, args []string) {
	if len(args) < 2 {
		log.Fatal("Usage: tailorctl set-status <id> <status>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		log.Fatalf("invalid id: %v", err)
	}
	row, err := client.JobOrders.UpdateStatus(ctx, id, core.DeliveryStatus(args[1]))
	if err != nil {
		log.Fatalf("Failed to update status: %v", err)
	}
	fmt.Printf("%s is now %s.\n", row.DisplayID(), row.Status)
}

func runSchedule(ctx context.Context, client *api.Client, args []string) {
	if len(args) < 2 {
		log.Fatal("Usage: tailorctl schedule <id> <YYYY-MM-DD>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		log.Fatalf("invalid id: %v", err)
	}

	current, err := client.JobOrders.Get(ctx, id)
	if err != nil {
		log.Fatalf("Failed to load job order: %v", err)
	}
	// keep the original time of day, only the calendar date moves
	when, err := core.MergeDeliveryDate(current.DeliveryDate, args[1])
	if err != nil {
		log.Fatalf("invalid date: %v", err)
	}
	row, err := client.JobOrders.ScheduleDelivery(ctx, id, when)
	if err != nil {
		log.Fatalf("Failed to update delivery_date: %v", err)
	}
	fmt.Printf("%s scheduled for %s.\n", row.DisplayID(), row.DeliveryDate.Format("2006-01-02 15:04"))
}

func runExport(ctx context.Context, client *api.Client, args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("out", "deliveries.xlsx", "output path (.xlsx or .html)")
	fs.Parse(args)

	rows, err := client.JobOrders.Deliveries(ctx, api.DeliveryFilter{Blocked: api.BlockedAll})
	if err != nil {
		log.Fatalf("Failed to load deliveries: %v", err)
	}

	if strings.HasSuffix(*out, ".html") {
		path, err := printing.SaveDeliveryReport(printing.DeliveryReport{
			Title:       "Delivery Report",
			GeneratedAt: time.Now(),
			Rows:        rows,
			Totals:      core.GrandTotals(rows),
		})
		if err != nil {
			log.Fatalf("Failed to render report: %v", err)
		}
		if err := os.Rename(path, *out); err != nil {
			log.Fatalf("Failed to write %s: %v", *out, err)
		}
	} else {
		if err := printing.ExportDeliveryXLSX(*out, rows); err != nil {
			log.Fatalf("Failed to export: %v", err)
		}
	}
	fmt.Printf("Wrote %s (%d rows).\n", *out, len(rows))
}

func mustID(args []string, usageLine string) int {
	if len(args) < 1 {
		log.Fatal(usageLine)
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		log.Fatalf("invalid id: %v", err)
	}
	return id
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: tailorctl <command> [args]

Session:
  login [email]            sign in and store the token pair
  logout                   sign out and clear stored tokens
  me                       show the signed-in user

Deliveries:
  deliveries [flags]       list deliveries (-status -blocked -search -from -to)
  stats                    delivery status counters
  set-amount <id> <amt>    record amount received on delivery
  set-status <id> <st>     move the order to another status
  schedule <id> <date>     move the delivery date (time of day kept)
  block <id>               toggle the blocked flag

Other:
  receipts                 list receipts
  companies                list companies
  customers [query]        search customers
  inventory                list materials
  sales                    list sales
  services                 list services
  export [-out file]       export deliveries to xlsx or html`)
}
