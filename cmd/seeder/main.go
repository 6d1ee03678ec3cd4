package main

import (
	"bufio"
	"context"
	"flag"
	"iter"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/skillmatch"
	"github.com/poiesic/skillmatch/config"
)

var sampleResumes = []string{
	`Priya Raman
Email: priya.raman@example.com
Phone: +1 555 0101
Skills: Python, SQL, Pandas, Airflow
Education: MSc Data Science, University of Toronto
Experience: Data engineer at Northwind, 4 years`,

	`Marcus Bell
Email: marcus.bell@example.com
Skills: Java, Spring Boot, Kafka, PostgreSQL
Education: BSc Computer Science
Experience: Backend developer at Contoso, 6 years`,

	`Elena Petrova
Email: elena.petrova@example.com
Skills: Python, Django, React, Docker
Education: BEng Software Engineering
Experience: Full-stack developer at Fabrikam, 3 years`,

	`Tomás Álvarez
Email: tomas.alvarez@example.com
Skills: Go, Kubernetes, Terraform, AWS
Education: BSc Information Systems
Experience: Site reliability engineer at Adventure Works, 5 years`,

	`Aisha Okafor
Email: aisha.okafor@example.com
Skills: Machine Learning, PyTorch, NLP, Python
Education: PhD Computational Linguistics
Experience: Research scientist at Tailspin, 2 years`,

	`Kenji Watanabe
Email: kenji.watanabe@example.com
Skills: C++, CUDA, Computer Vision, OpenCV
Education: MEng Electrical Engineering
Experience: Embedded vision engineer at Litware, 7 years`,

	`Sofia Rossi
Email: sofia.rossi@example.com
Skills: Figma, UX Research, Accessibility, HTML, CSS
Education: BA Interaction Design
Experience: Product designer at Wide World Importers, 4 years`,

	`David Cohen
Email: david.cohen@example.com
Skills: Rust, WebAssembly, TypeScript, Node.js
Education: BSc Mathematics
Experience: Systems programmer at Proseware, 3 years`,
}

var (
	seedFileName = flag.String("src", "", "file of resumes separated by lines of ---")
	configPath   = flag.String("config", "", "path to a TOML config file")
	dbPath       = flag.String("db", "", "database path (overrides the config)")
	extract      = flag.Bool("extract", false, "run field and key skill extraction after seeding")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

// resumesFromFile returns an iterator over resumes in a file. Resumes are
// separated by lines holding only "---".
func resumesFromFile(filename string) (iter.Seq[string], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(string) bool) {
		defer f.Close()
		var current strings.Builder
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := scanner.Text()
			if strings.TrimSpace(line) != "---" {
				current.WriteString(line)
				current.WriteByte('\n')
				continue
			}
			if text := current.String(); strings.TrimSpace(text) != "" {
				if !yield(text) {
					return
				}
			}
			current.Reset()
		}
		if text := current.String(); strings.TrimSpace(text) != "" {
			yield(text)
		}
	}, nil
}

// resumesFromSlice returns an iterator over a slice of resumes.
func resumesFromSlice(resumes []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, r := range resumes {
			if !yield(r) {
				return
			}
		}
	}
}

// ingestAll stores every resume from source and reports how many were new.
func ingestAll(ctx context.Context, engine *skillmatch.Engine, source iter.Seq[string]) (int, error) {
	stored := 0
	for text := range source {
		res, err := engine.Ingest(ctx, text)
		if err != nil {
			return stored, err
		}
		if !res.Duplicate {
			stored++
		}
	}
	return stored, nil
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	if *dbPath != "" {
		cfg.Storage.Path = *dbPath
	}

	engine, err := skillmatch.NewEngine(cfg)
	if err != nil {
		panic(err)
	}
	defer engine.Close()

	ctx := context.Background()

	// Determine source of seed data
	var source iter.Seq[string]
	if *seedFileName != "" {
		source, err = resumesFromFile(*seedFileName)
		if err != nil {
			panic(err)
		}
	} else {
		source = resumesFromSlice(sampleResumes)
	}

	stored, err := ingestAll(ctx, engine, source)
	if err != nil {
		panic(err)
	}
	slog.Info("seeded resumes", "stored", stored)

	if !*extract {
		return
	}
	fields, err := engine.ExtractFields(ctx)
	if err != nil {
		panic(err)
	}
	skills, err := engine.ExtractKeySkills(ctx)
	if err != nil {
		panic(err)
	}
	slog.Info("extraction finished", "profiles", fields.Saved, "keySkills", skills.Saved, "failed", skills.Failed)
}
