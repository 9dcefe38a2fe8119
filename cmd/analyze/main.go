package main

// One-shot analysis of an email file:
//   go run ./cmd/analyze -file mail.eml
//
// Writes the calendar zip, task CSV, and text report next to the input.

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mailwork-backend/internal/analyses"
	"mailwork-backend/internal/export"
	"mailwork-backend/internal/llm/azure"
	"mailwork-backend/internal/mailparse"
	"mailwork-backend/internal/shared/config"
)

func main() {
	filePath := flag.String("file", "", "path to an .eml, .msg, or .txt file")
	flag.Parse()

	if *filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*filePath); err != nil {
		log.Fatalf("analyze: %v", err)
	}
}

func run(filePath string) error {
	cfg := config.Load()

	client, err := azure.NewClient(cfg.AzureEndpoint, cfg.AzureAPIKey, cfg.AzureAPIVersion, cfg.AzureDeployment)
	if err != nil {
		return fmt.Errorf("azure client: %w", err)
	}

	raw, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	record, err := mailparse.Parse(raw, mailparse.KindForFileName(filePath))
	if err != nil {
		return err
	}

	svc := &analyses.Service{Repo: analyses.NewMemoryRepo(), LLM: client}
	analysis, err := svc.Analyze(context.Background(), "cli", record, mailparse.KindForFileName(filePath), nil)
	if err != nil {
		return err
	}

	result := analysis.Result
	fmt.Printf("요약: %s\n", result.Summary)
	fmt.Printf("긴급도: %s / 감정: %s\n", result.UrgencyLevel, result.Sentiment)
	fmt.Printf("할일 %d건\n", len(result.Tasks))
	if result.Degraded() {
		fmt.Println("주의: 응답 파싱에 실패해 기본 결과로 대체되었습니다.")
	}

	base := strings.TrimSuffix(filePath, filepath.Ext(filePath))
	now := time.Now().UTC()

	calendar, err := export.EncodeCalendarZip(result.Tasks, record.Subject, now)
	if err != nil {
		return err
	}
	if err := os.WriteFile(base+"_calendar.zip", calendar, 0o644); err != nil {
		return err
	}

	csvPayload, err := export.EncodeTaskCSV(*result)
	if err != nil {
		return err
	}
	if err := os.WriteFile(base+"_tasks.csv", csvPayload, 0o644); err != nil {
		return err
	}

	report := export.EncodeTextReport(*result, now)
	if err := os.WriteFile(base+"_report.txt", report, 0o644); err != nil {
		return err
	}

	fmt.Printf("내보내기 완료: %s_calendar.zip, %s_tasks.csv, %s_report.txt\n", base, base, base)
	return nil
}
