package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file.pdf>",
	Short: "Upload a resume and print its id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		mimeType := mime.TypeByExtension(filepath.Ext(path))
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}

		res, err := newClient().UploadResume(cmd.Context(), filepath.Base(path), mimeType, data)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), res, func(tw *tabwriter.Writer) {
			fmt.Fprintln(tw, "ID\tFILE\tURL")
			fmt.Fprintf(tw, "%s\t%s\t%s\n", res.ID, res.FileName, res.FileURL)
		})
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded resumes, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resumes, err := newClient().ListResumes(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), resumes, func(tw *tabwriter.Writer) {
			fmt.Fprintln(tw, "ID\tFILE\tPAGES\tUPLOADED")
			for _, r := range resumes {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.ID, r.FileName, r.PageCount, r.UploadedAt.Local().Format(time.DateTime))
			}
		})
	},
}

var showCmd = &cobra.Command{
	Use:   "show <resumeId>",
	Short: "Show one resume with its page sizes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newClient().GetResume(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), r, func(tw *tabwriter.Writer) {
			fmt.Fprintf(tw, "ID\t%s\n", r.ID)
			fmt.Fprintf(tw, "File\t%s\n", r.FileName)
			fmt.Fprintf(tw, "URL\t%s\n", r.FileURL)
			fmt.Fprintf(tw, "Uploaded\t%s\n", r.UploadedAt.Local().Format(time.DateTime))
			for i, p := range r.Pages {
				fmt.Fprintf(tw, "Page %d\t%.0f x %.0f pt\n", i+1, p.Width, p.Height)
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd, listCmd, showCmd)
}
