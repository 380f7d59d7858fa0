package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"reelintake/internal/admin"
	"reelintake/internal/config"
	"reelintake/internal/logging"
	"reelintake/internal/store"
)

func newSubmissionsCommand(ctx *commandContext) *cobra.Command {
	submissionsCmd := &cobra.Command{
		Use:     "submissions",
		Aliases: []string{"subs"},
		Short:   "Review and manage submissions",
	}

	submissionsCmd.AddCommand(newSubmissionsListCommand(ctx))
	submissionsCmd.AddCommand(newSubmissionsShowCommand(ctx))
	submissionsCmd.AddCommand(newSubmissionsSetStatusCommand(ctx))
	submissionsCmd.AddCommand(newSubmissionsNoteCommand(ctx))
	submissionsCmd.AddCommand(newSubmissionsDeleteCommand(ctx))

	return submissionsCmd
}

func withAdminService(ctx *commandContext, fn func(cfg *config.Config, svc *admin.Service, st *store.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	st, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	svc := admin.NewService(st, cfg.Paths.UploadDir, logging.NewNop())
	return fn(cfg, svc, st)
}

func newSubmissionsListCommand(ctx *commandContext) *cobra.Command {
	var statusFlag string
	var searchFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List submissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdminService(ctx, func(_ *config.Config, svc *admin.Service, _ *store.Store) error {
				subs, err := svc.List(cmd.Context(), store.ListOptions{
					Status: strings.TrimSpace(statusFlag),
					Search: strings.TrimSpace(searchFlag),
				})
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(subs) == 0 {
					fmt.Fprintln(out, "No submissions found")
					return nil
				}

				rows := make([][]string, 0, len(subs))
				for _, sub := range subs {
					rows = append(rows, []string{
						shortID(sub.ID),
						truncate(sub.Name, 28),
						truncate(sub.Email, 32),
						statusLabel(sub.Status),
						formatTimestamp(sub.CreatedAt),
					})
				}
				fmt.Fprintln(out, renderTable([]string{"ID", "Name", "Email", "Status", "Received"}, rows))
				fmt.Fprintf(out, "%d submission(s)\n", len(subs))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&statusFlag, "status", "", "Filter by status (new, in-review, complete)")
	cmd.Flags().StringVar(&searchFlag, "search", "", "Match against name or email")
	return cmd
}

func newSubmissionsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <submission-id>",
		Short: "Show a submission in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdminService(ctx, func(_ *config.Config, svc *admin.Service, st *store.Store) error {
				id, err := resolveSubmissionID(cmd, st, args[0])
				if err != nil {
					return err
				}
				detail, err := svc.Describe(cmd.Context(), id)
				if err != nil {
					if errors.Is(err, admin.ErrNotFound) {
						return fmt.Errorf("no submission with id %s", args[0])
					}
					return err
				}
				printDetail(cmd, detail)
				return nil
			})
		},
	}
}

func newSubmissionsSetStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <submission-id> <status>",
		Short: "Move a submission to a new review status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdminService(ctx, func(_ *config.Config, svc *admin.Service, st *store.Store) error {
				id, err := resolveSubmissionID(cmd, st, args[0])
				if err != nil {
					return err
				}
				status := strings.TrimSpace(args[1])
				if err := svc.SetStatus(cmd.Context(), id, status); err != nil {
					if errors.Is(err, admin.ErrNotFound) {
						return fmt.Errorf("no submission with id %s", args[0])
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Submission %s is now %s\n", shortID(id), statusLabel(status))
				return nil
			})
		},
	}
}

func newSubmissionsNoteCommand(ctx *commandContext) *cobra.Command {
	var authorFlag string

	cmd := &cobra.Command{
		Use:   "note <submission-id> <text>",
		Short: "Attach a review note to a submission",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdminService(ctx, func(_ *config.Config, svc *admin.Service, st *store.Store) error {
				id, err := resolveSubmissionID(cmd, st, args[0])
				if err != nil {
					return err
				}
				body := strings.Join(args[1:], " ")
				noteID, err := svc.AddNote(cmd.Context(), id, authorFlag, body)
				if err != nil {
					if errors.Is(err, admin.ErrNotFound) {
						return fmt.Errorf("no submission with id %s", args[0])
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added note %s\n", shortID(noteID))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&authorFlag, "author", "cli", "Author recorded on the note")
	return cmd
}

func newSubmissionsDeleteCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <submission-id>",
		Short: "Delete a submission and its attachments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdminService(ctx, func(cfg *config.Config, _ *admin.Service, st *store.Store) error {
				id, err := resolveSubmissionID(cmd, st, args[0])
				if err != nil {
					return err
				}
				if !yes {
					return errors.New("refusing to delete without --yes")
				}
				logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
				svc := admin.NewService(st, cfg.Paths.UploadDir, logger)
				if err := svc.Delete(cmd.Context(), id); err != nil {
					if errors.Is(err, admin.ErrNotFound) {
						return fmt.Errorf("no submission with id %s", args[0])
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted submission %s\n", shortID(id))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation requirement")
	return cmd
}

// resolveSubmissionID accepts either a full id or an unambiguous prefix.
func resolveSubmissionID(cmd *cobra.Command, st *store.Store, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("submission id is required")
	}

	if sub, err := st.GetSubmission(cmd.Context(), raw); err != nil {
		return "", err
	} else if sub != nil {
		return sub.ID, nil
	}

	subs, err := st.ListSubmissions(cmd.Context(), store.ListOptions{})
	if err != nil {
		return "", err
	}
	var matches []string
	for _, sub := range subs {
		if strings.HasPrefix(sub.ID, raw) {
			matches = append(matches, sub.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no submission with id %s", raw)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("id prefix %s matches %d submissions", raw, len(matches))
	}
}

func printDetail(cmd *cobra.Command, detail *admin.Detail) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	sub := detail.Submission

	fmt.Fprintln(out, renderSectionHeader("Submission "+shortID(sub.ID), colorize))
	fmt.Fprintln(out, renderStatusLine("Status", statusInfo, statusLabel(sub.Status), colorize))
	fmt.Fprintln(out, renderStatusLine("Name", statusInfo, sub.Name, colorize))
	fmt.Fprintln(out, renderStatusLine("Email", statusInfo, sub.Email, colorize))
	fmt.Fprintln(out, renderStatusLine("Phone", statusInfo, sub.Phone, colorize))
	if sub.Website != "" {
		fmt.Fprintln(out, renderStatusLine("Website", statusInfo, sub.Website, colorize))
	}
	if sub.Brief != "" {
		fmt.Fprintln(out, renderStatusLine("Brief", statusInfo, sub.Brief, colorize))
	}
	if sub.Audience != "" {
		fmt.Fprintln(out, renderStatusLine("Audience", statusInfo, sub.Audience, colorize))
	}
	if len(sub.Tones) > 0 {
		fmt.Fprintln(out, renderStatusLine("Tones", statusInfo, strings.Join(sub.Tones, ", "), colorize))
	}
	if len(sub.FootageTypes) > 0 {
		fmt.Fprintln(out, renderStatusLine("Footage", statusInfo, strings.Join(sub.FootageTypes, ", "), colorize))
	}
	if len(sub.CredibilityMarkers) > 0 {
		fmt.Fprintln(out, renderStatusLine("Credibility", statusInfo, strings.Join(sub.CredibilityMarkers, ", "), colorize))
	}
	fmt.Fprintln(out, renderStatusLine("Additional info", statusInfo, sub.AdditionalInfo, colorize))
	fmt.Fprintln(out, renderStatusLine("Received", statusInfo, formatTimestamp(sub.CreatedAt), colorize))

	if len(detail.ReelExamples) > 0 {
		fmt.Fprintln(out)
		rows := make([][]string, 0, len(detail.ReelExamples))
		for _, example := range detail.ReelExamples {
			rows = append(rows, []string{
				fmt.Sprintf("%d", example.Position),
				example.Link,
				truncate(example.Comment, 48),
			})
		}
		fmt.Fprintln(out, renderTable([]string{"#", "Reel Example", "Comment"}, rows))
	}

	if len(detail.Files) > 0 {
		fmt.Fprintln(out)
		rows := make([][]string, 0, len(detail.Files))
		for _, file := range detail.Files {
			rows = append(rows, []string{
				truncate(file.FileName, 40),
				file.ContentType,
				fmt.Sprintf("%d", file.SizeBytes),
				formatTimestamp(file.CreatedAt),
			})
		}
		fmt.Fprintln(out, renderTable([]string{"File", "Type", "Bytes", "Uploaded"}, rows))
	}

	if len(detail.Notes) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderSectionHeader("Notes", colorize))
		for _, note := range detail.Notes {
			fmt.Fprintf(out, "  [%s] %s: %s\n", formatTimestamp(note.CreatedAt), note.Author, note.Body)
		}
	}
}
