package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"
)

const defaultPassword = "testpassword123"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	apiURL := "http://localhost:8080"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	root := &cobra.Command{
		Use:           "simulator",
		Short:         "Development tool that fills a sleep tracker with users, follows and sleep history",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&apiURL, "api", apiURL, "backend base URL (env API_URL)")

	root.AddCommand(newPopulateCmd(&apiURL))
	root.AddCommand(newFeedCmd(&apiURL))
	return root
}

func newPopulateCmd(apiURL *string) *cobra.Command {
	var (
		count  int
		nights int
		seed   int64
	)

	cmd := &cobra.Command{
		Use:   "populate",
		Short: "Register users who all follow each other and record nights of sleep",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 2 {
				return fmt.Errorf("--count must be at least 2")
			}
			if nights < 1 {
				return fmt.Errorf("--nights must be at least 1")
			}

			client := NewAPIClient(*apiURL)
			rng := rand.New(rand.NewSource(seed))
			out := cmd.OutOrStdout()

			type member struct {
				user  *User
				token string
			}
			members := make([]member, 0, count)

			fmt.Fprintf(out, "Registering %d users:\n", count)
			for i := 0; i < count; i++ {
				user, token, err := client.RegisterUser(fmt.Sprintf("sleeper%d", i+1), defaultPassword)
				if err != nil {
					return err
				}
				members = append(members, member{user: user, token: token})
				fmt.Fprintf(out, "  %s (%s)\n", user.DisplayName, user.ID)
			}

			fmt.Fprintln(out, "Following everyone...")
			for _, a := range members {
				for _, b := range members {
					if a.user.ID == b.user.ID {
						continue
					}
					if err := client.Follow(a.token, b.user.ID); err != nil {
						return err
					}
				}
			}

			fmt.Fprintf(out, "Recording %d nights per user...\n", nights)
			today := time.Now().UTC().Truncate(24 * time.Hour)
			for _, m := range members {
				for n := nights; n >= 1; n-- {
					// Bedtime between 21:00 and 01:00, 5 to 10 hours asleep
					start := today.AddDate(0, 0, -n).
						Add(21 * time.Hour).
						Add(time.Duration(rng.Intn(240)) * time.Minute)
					end := start.Add(5*time.Hour + time.Duration(rng.Intn(300))*time.Minute)
					if end.After(time.Now()) {
						continue
					}
					if _, err := client.RecordSleep(m.token, start, end); err != nil {
						return fmt.Errorf("%s: %w", m.user.DisplayName, err)
					}
				}
			}

			fmt.Fprintln(out)
			fmt.Fprintf(out, "Done. Log in as any user above with password %q.\n", defaultPassword)
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 5, "number of users to create")
	cmd.Flags().IntVar(&nights, "nights", 10, "nights of sleep history per user")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed for bedtimes and durations")
	return cmd
}

func newFeedCmd(apiURL *string) *cobra.Command {
	var (
		password string
		since    string
	)

	cmd := &cobra.Command{
		Use:   "feed <displayName>",
		Short: "Print a user's following feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sinceTime time.Time
			if since != "" {
				parsed, err := time.Parse(time.RFC3339, since)
				if err != nil {
					return fmt.Errorf("--since: %w", err)
				}
				sinceTime = parsed
			}

			client := NewAPIClient(*apiURL)
			user, token, err := client.Login(args[0], password)
			if err != nil {
				return err
			}

			feed, err := client.GetFeed(token, sinceTime)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Feed for %s since %s\n", user.DisplayName, feed.Since.Format(time.RFC3339))
			if len(feed.Items) == 0 {
				fmt.Fprintln(out, "  (empty)")
				return nil
			}
			for i, item := range feed.Items {
				var d time.Duration
				if item.DurationSeconds != nil {
					d = time.Duration(*item.DurationSeconds * float64(time.Second))
				}
				fmt.Fprintf(out, "%3d. %-20s %8s  %s\n", i+1, item.User.DisplayName, d.Round(time.Minute), item.StartTime.Format(time.RFC3339))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", defaultPassword, "password of the user")
	cmd.Flags().StringVar(&since, "since", "", "window start (RFC 3339); default is the server's feed window")
	return cmd
}
