package utils

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
)

// WriteOutput will write the CSV and/or stdout data based on the viper configuration.
// stdOutData falls back to csvData when nil.
func WriteOutput(csvData, stdOutData [][]string, csvFileName string) error {

	if stdOutData == nil {
		stdOutData = csvData
	}

	// Get the output format
	outFormat := viper.GetString("output_format")
	if outFormat == "" {
		outFormat = "stdout"
	}

	// Write stdout if output format dictates it
	if (outFormat == "stdout" || outFormat == "both") && len(stdOutData) > 0 {
		maxEntries := viper.GetInt("max_entries_for_stdout")
		if maxEntries == 0 {
			maxEntries = 100
		}
		if len(stdOutData) < maxEntries {
			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader(stdOutData[0])
			for i := 1; i <= len(stdOutData)-1; i++ {
				table.Append(stdOutData[i])
			}
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			table.SetAutoWrapText(false)
			table.SetRowLine(true)
			table.Render()
		} else {
			fmt.Printf("[INFO] - Data set exceeds stdout limit. To see table in stdout, increase max_entries_for_stdout in azvnet.yaml\r\n")
		}
	}

	// Write CSV data if output format dictates it
	if outFormat == "csv" || outFormat == "both" {
		if err := WriteCSV(csvData, csvFileName); err != nil {
			return err
		}
		fmt.Printf("\r\n[INFO] - Output file: %s\r\n", csvFileName)
		LogInfo(fmt.Sprintf("created %s", csvFileName), false)
	}

	return nil
}

// WriteCSV writes rows to a CSV file, replacing embedded newlines so every record stays on one line.
func WriteCSV(csvData [][]string, csvFileName string) error {
	outFile, err := os.Create(csvFileName)
	if err != nil {
		return fmt.Errorf("creating CSV - %w", err)
	}
	defer outFile.Close()

	writer := csv.NewWriter(outFile)
	for _, row := range csvData {
		clean := make([]string, len(row))
		for i, cell := range row {
			clean[i] = ReplaceNewLine(cell)
		}
		if err := writer.Write(clean); err != nil {
			return fmt.Errorf("writing CSV - %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("writing CSV - %w", err)
	}
	return nil
}

// FileName returns a timestamped default output file name for a command
func FileName(command string) string {
	if command == "" {
		return fmt.Sprintf("azvnet-output-%s.csv", time.Now().Format("20060102_150405"))
	}
	return fmt.Sprintf("azvnet-%s-%s.csv", command, time.Now().Format("20060102_150405"))
}
