package main

import (
	"context"
	"fmt"
	"log"

	"github.com/siherrmann/chronicle"
	"github.com/siherrmann/chronicle/helper"
	"github.com/siherrmann/chronicle/llm"
	"github.com/siherrmann/chronicle/model"
)

const sampleManuscript = `Capítulo 1

Corría el Siglo de Oro. María, que tenía treinta años, vivía en Toledo
con su hermano Pedro. Aquella primavera la corte bullía de intrigas y
nadie prestaba atención a los forasteros.

Capítulo 2

Tres días después Pedro partió hacia Madrid. En el camino sacó su
teléfono móvil para avisar al duque de su llegada, y nadie en la venta
pareció extrañarse.`

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Name:     "chronicle",
		User:     "chronicle",
		Password: "chronicle",
		SSLMode:  "disable",
	}

	c, err := chronicle.NewChronicle(dbConfig, 384)
	if err != nil {
		log.Fatalf("Failed to create chronicle: %v", err)
	}
	defer c.Close()

	// Set up the default pipeline (chapter splitting + embeddings + NER)
	if err := c.UseDefaultPipeline(); err != nil {
		log.Fatalf("Failed to set up pipeline: %v", err)
	}

	// Generative extraction degrades gracefully if Ollama is not running
	c.UseOllamaExtractor(llm.DefaultOllamaConfig())

	doc := &model.Document{
		Title:   "Intrigas en Toledo",
		Source:  "basic_example",
		Content: sampleManuscript,
		Metadata: model.Metadata{
			"author": "Example Author",
			"lang":   "es",
		},
	}

	// Process and insert the manuscript in one call
	fmt.Println("Ingesting manuscript...")
	numChapters, err := c.ProcessAndInsertManuscript(doc)
	if err != nil {
		log.Fatalf("Failed to process and insert manuscript: %v", err)
	}
	fmt.Printf("Manuscript inserted with ID: %s\n", doc.RID)
	fmt.Printf("Inserted %d chapters\n", numChapters)

	// Record timeline events for the temporal map
	events := []*model.TimelineEvent{
		{
			DocumentID:        doc.ID,
			Description:       "María y Pedro en Toledo",
			Chapter:           1,
			DiscoursePosition: 1,
			Time:              model.RelativeTime(0),
			NarrativeOrder:    model.NarrativeChronological,
			Confidence:        0.9,
		},
		{
			DocumentID:        doc.ID,
			Description:       "Pedro parte hacia Madrid",
			Chapter:           2,
			DiscoursePosition: 2,
			Time:              model.RelativeTime(3),
			NarrativeOrder:    model.NarrativeChronological,
			Confidence:        0.8,
		},
	}
	for _, event := range events {
		if err := c.Events.InsertEvent(event); err != nil {
			log.Fatalf("Failed to insert timeline event: %v", err)
		}
	}

	// Run the full analysis: temporal map, extraction, anachronisms
	fmt.Println("\nAnalyzing manuscript...")
	analysis, err := c.AnalyzeManuscript(context.Background(), doc.RID, nil)
	if err != nil {
		log.Fatalf("Failed to analyze manuscript: %v", err)
	}

	if hours, ok := analysis.TemporalMap.StoryTimeGapHours(1, 2); ok {
		fmt.Printf("Story time between chapter 1 and 2: %.0f hours\n", hours)
	}

	fmt.Printf("\nExtracted %d temporal instances:\n", len(analysis.Instances))
	for _, instance := range analysis.Instances {
		fmt.Printf("  %s (%s): %q\n", instance.EntityName, instance.Kind, instance.Evidence)
	}

	fmt.Printf("\nNarrative period: %s\n", analysis.Anachronisms.NarrativePeriod)
	fmt.Printf("Found %d possible anachronisms:\n", len(analysis.Anachronisms.Anachronisms))
	for i, anachronism := range analysis.Anachronisms.Anachronisms {
		fmt.Printf("\n--- Anachronism %d ---\n", i+1)
		fmt.Printf("Term: %s (earliest %d, category %s)\n", anachronism.Term, anachronism.EarliestYear, anachronism.Category)
		fmt.Printf("Confidence: %.2f\n", anachronism.Confidence)
		fmt.Printf("Context: %s\n", anachronism.Context)
	}

	fmt.Println("\nBasic example completed successfully!")
}
