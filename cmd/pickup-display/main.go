package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fesgura/mathtrade-logistics-sub000/api"
	"github.com/fesgura/mathtrade-logistics-sub000/config"
	"github.com/fesgura/mathtrade-logistics-sub000/logistics"
	"github.com/fesgura/mathtrade-logistics-sub000/utils"
)

func main() {
	capacityAware := flag.Bool("capacity", false, "Use the capacity-aware display variant (full status sort, empty windows kept)")
	maxUsers := flag.Int("max-users", 0, "Optional: override the displayed-users limit for every window")
	pollSeconds := flag.Int("poll-seconds", 0, "Optional: override the polling interval")
	flag.Parse()

	// Credentials come from the environment once at startup. Good enough for
	// a hall display an organizer logs in.
	ctx := utils.SetTokenInContext(context.Background(), strings.TrimSpace(os.Getenv("MT_TOKEN")))
	ctx = utils.SetUserIdInContext(ctx, intFromEnv("MT_USER_ID"))
	ctx = utils.SetIsAdminInContext(ctx, strings.EqualFold(strings.TrimSpace(os.Getenv("MT_IS_ADMIN")), "true"))
	session := api.SessionFromContext(ctx)
	if !session.IsAuthenticated() {
		fmt.Fprintln(os.Stderr, "MT_TOKEN is required")
		os.Exit(1)
	}

	client, err := api.NewClient(session)
	if err != nil {
		fmt.Fprintf(os.Stderr, "api client: %v\n", err)
		os.Exit(1)
	}

	settings := config.NewDisplaySettingsStore()
	if *pollSeconds > 0 {
		if err := settings.SetPollingSeconds(*pollSeconds); err != nil {
			failSetting("poll-seconds", err)
		}
	}

	organizer := logistics.NewWindowPickupOrganizer(client, settings, *capacityAware)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	if err := organizer.Load(sigCtx); err != nil {
		fmt.Fprintf(os.Stderr, "initial load: %v\n", err)
		os.Exit(1)
	}
	if *maxUsers > 0 {
		for _, bucket := range organizer.Buckets() {
			if err := settings.SetMaxUsers(bucket.Window.ID, *maxUsers); err != nil {
				failSetting("max-users", err)
			}
		}
	}

	go organizer.Run(sigCtx)

	render := time.NewTicker(settings.PollingInterval())
	defer render.Stop()
	printBuckets(organizer)
	for {
		select {
		case <-sigCtx.Done():
			return
		case <-render.C:
			printBuckets(organizer)
		}
	}
}

func printBuckets(organizer *logistics.WindowPickupOrganizer) {
	fmt.Printf("--- %s ---\n", time.Now().Format("15:04:05"))
	for _, b := range organizer.Buckets() {
		fmt.Printf("%s: %d waiting (%d attended, %d no-show)\n", b.Window.Name, b.Ready, b.Attended, b.NoShow)
		for _, u := range b.Users {
			marker := " "
			if u.Status.IsNoShow() {
				marker = "x"
			} else if u.Status.IsAttended() {
				marker = "*"
			}
			fmt.Printf("  [%s] %s\n", marker, u.DisplayName())
		}
		if b.Overflow > 0 {
			fmt.Printf("  ... and %d more\n", b.Overflow)
		}
	}
}

// failSetting reports a rejected settings value, naming the violated bounds
// when the failure came from validation.
func failSetting(flagName string, err error) {
	if fields := utils.ProcessValidationErrors(err); len(fields) > 0 {
		for field, rule := range fields {
			fmt.Fprintf(os.Stderr, "invalid %s: %s violates %s\n", flagName, field, rule)
		}
	} else {
		fmt.Fprintf(os.Stderr, "invalid %s: %v\n", flagName, err)
	}
	os.Exit(1)
}

func intFromEnv(key string) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return 0
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return n
}
