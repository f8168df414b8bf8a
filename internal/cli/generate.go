package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Lllllllleong/certificateflow/internal/archive"
	"github.com/Lllllllleong/certificateflow/internal/certificate"
	"github.com/Lllllllleong/certificateflow/internal/models"
	"github.com/Lllllllleong/certificateflow/internal/services"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the certificates of one location",
	Long: `Generate one certificate per registrant of the selected location that has a
dharma name and write them all into a zip archive.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

var (
	generateRoster   string
	generateLocation string
	generateDate     string
	generateBlank    bool
	generateOut      string
)

func init() {
	flags := generateCmd.Flags()
	flags.StringVarP(&generateRoster, "roster", "r", "", "Registration CSV file")
	flags.StringVarP(&generateLocation, "location", "l", "", "Location to generate for")
	flags.StringVarP(&generateDate, "date", "d", "", "Date printed on the certificates (YYYY-MM-DD, default today)")
	flags.BoolVar(&generateBlank, "blank", false, "Print on a blank landscape page instead of the template")
	flags.StringVarP(&generateOut, "out", "o", archive.DefaultName, "Output zip file")
	_ = generateCmd.MarkFlagRequired("roster")
	_ = generateCmd.MarkFlagRequired("location")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	date := generateDate
	if date == "" {
		date = time.Now().Format(certificate.InputDateLayout)
	}

	gen, err := services.NewGeneratorWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to initialize generator: %w", err)
	}
	defer gen.Close()

	rosterFile, err := os.Open(generateRoster)
	if err != nil {
		return fmt.Errorf("failed to open roster: %w", err)
	}
	defer rosterFile.Close()

	req := &models.GenerateRequest{Location: generateLocation, Date: date, Blank: generateBlank}
	res, data, err := gen.Process(ctx, req, rosterFile)
	if err != nil {
		return err
	}

	if err := os.WriteFile(generateOut, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", generateOut, err)
	}

	cmd.Println(res.Message)
	cmd.Printf("Archive: %s\n", generateOut)
	return nil
}
