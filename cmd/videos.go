package cmd

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	apiclient "github.com/klyve/vodctl/internal/adapters/api"
	"github.com/klyve/vodctl/internal/domain"
)

func newVideosCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "videos",
		Short: "Manage promotional videos",
	}

	cmd.AddCommand(
		newVideosListCmd(app),
		newVideosURLCmd(app),
		newVideosUploadCmd(app),
		newVideosUpdateCmd(app),
		newVideosDeleteCmd(app),
	)

	return cmd
}

func newVideosListCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List promotional videos",
		RunE: func(cmd *cobra.Command, _ []string) error {
			videos, err := app.api.ListPromotionalVideos(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd, videos)
			}

			rows := make([][]string, 0, len(videos))
			for _, video := range videos {
				visibility := "visible"
				if video.Hidden {
					visibility = "hidden"
				}
				rows = append(rows, []string{
					video.ID,
					video.VideoID,
					video.Category,
					strconv.Itoa(video.Priority),
					visibility,
					video.Title,
				})
			}
			return table(cmd, []string{"ID", "VIDEO", "CATEGORY", "PRIORITY", "VISIBILITY", "TITLE"}, rows)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func newVideosURLCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "url <video-id>",
		Short: "Fetch a video's playback URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			playbackURL, err := app.api.GetVideoURL(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), playbackURL)
			return err
		},
	}
}

func addVideoDraftFlags(cmd *cobra.Command, draft *domain.VideoDraft) {
	cmd.Flags().StringVar(&draft.Category, "category", "", "Video category")
	cmd.Flags().StringVar(&draft.Title, "title", "", "Display title")
	cmd.Flags().StringVar(&draft.Description, "description", "", "Display description")
	cmd.Flags().IntVar(&draft.Priority, "priority", 0, "Ordering priority, higher first")
	cmd.Flags().BoolVar(&draft.Hidden, "hidden", false, "Hide the video from the landing page")
	cmd.Flags().StringVar(&draft.StartDate, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&draft.EndDate, "end", "", "End date (YYYY-MM-DD)")
}

func newVideosUploadCmd(app *app) *cobra.Command {
	var (
		draft domain.VideoDraft
		file  string
	)

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload a video file and create its promotional entry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open video file: %w", err)
			}
			defer func() { _ = f.Close() }()

			info, err := f.Stat()
			if err != nil {
				return fmt.Errorf("stat video file: %w", err)
			}

			fileName := filepath.Base(file)
			signed, err := app.api.CreateSignedUpload(cmd.Context(), draft.Title, draft.Description, fileName)
			if err != nil {
				return err
			}

			contentType := mime.TypeByExtension(filepath.Ext(fileName))
			if contentType == "" {
				contentType = "application/octet-stream"
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Uploading %s (%d bytes)\n", fileName, info.Size())
			if err := apiclient.UploadFile(cmd.Context(), signed.SignedURL, contentType, f, info.Size()); err != nil {
				return err
			}

			draft.VideoID = signed.VideoID
			video, err := app.api.CreatePromotionalVideo(cmd.Context(), draft)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created promotional video %s (video %s)\n", video.ID, video.VideoID)
			return nil
		},
	}

	addVideoDraftFlags(cmd, &draft)
	cmd.Flags().StringVar(&file, "file", "", "Path to the video file")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func newVideosUpdateCmd(app *app) *cobra.Command {
	var draft domain.VideoDraft

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a promotional video entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			video, err := app.api.UpdatePromotionalVideo(cmd.Context(), args[0], draft)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated promotional video %s\n", video.ID)
			return nil
		},
	}

	addVideoDraftFlags(cmd, &draft)
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func newVideosDeleteCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a promotional video entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.api.DeletePromotionalVideo(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted promotional video %s\n", args[0])
			return nil
		},
	}
}
