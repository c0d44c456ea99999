package main

import (
	"log"
	"os"

	"github.com/semiologia/semiologia-api/internal/config"
	"github.com/semiologia/semiologia-api/internal/domain/entity"
	"github.com/semiologia/semiologia-api/pkg/database"
)

// Development seeder: loads a small set of quizzes and study material so the
// app has something to show on a fresh database. Safe to re-run, existing
// titles are skipped.
func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.MigrateDB(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	quizzes := []entity.Quiz{
		{
			Title:    "Ausculta Cardiaca",
			Category: "Cardiologia",
			Questions: []entity.Question{
				{
					Description: "Em qual foco se ausculta melhor a valva mitral?",
					Options: entity.OptionList{
						{Text: "Foco aortico"},
						{Text: "Foco pulmonar"},
						{Text: "Foco mitral (apex)", Correct: true},
						{Text: "Foco tricuspide"},
					},
				},
				{
					Description: "A primeira bulha (B1) corresponde a qual evento?",
					Options: entity.OptionList{
						{Text: "Fechamento das valvas atrioventriculares", Correct: true},
						{Text: "Fechamento das valvas semilunares"},
						{Text: "Abertura da valva mitral"},
						{Text: "Contracao atrial"},
					},
				},
			},
		},
		{
			Title:    "Semiologia Respiratoria",
			Category: "Pneumologia",
			Questions: []entity.Question{
				{
					Description: "O frermito toracovocal esta aumentado em qual condicao?",
					Options: entity.OptionList{
						{Text: "Pneumotorax"},
						{Text: "Consolidacao pulmonar", Correct: true},
						{Text: "Derrame pleural"},
						{Text: "Enfisema"},
					},
				},
			},
		},
	}

	for i := range quizzes {
		var count int64
		db.Model(&entity.Quiz{}).Where("title = ?", quizzes[i].Title).Count(&count)
		if count > 0 {
			log.Printf("Quiz %q already present, skipping", quizzes[i].Title)
			continue
		}
		if err := db.Create(&quizzes[i]).Error; err != nil {
			log.Fatalf("Failed to seed quiz %q: %v", quizzes[i].Title, err)
		}
		log.Printf("Seeded quiz %q with %d questions", quizzes[i].Title, len(quizzes[i].Questions))
	}

	summaries := []entity.Summary{
		{Title: "Exame Fisico Geral", Category: "Geral", FileURL: "https://cdn.example.com/summaries/exame-fisico-geral.pdf"},
		{Title: "Ausculta Pulmonar", Category: "Pneumologia", FileURL: "https://cdn.example.com/summaries/ausculta-pulmonar.pdf"},
	}
	for i := range summaries {
		var count int64
		db.Model(&entity.Summary{}).Where("title = ?", summaries[i].Title).Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(&summaries[i]).Error; err != nil {
			log.Fatalf("Failed to seed summary %q: %v", summaries[i].Title, err)
		}
		log.Printf("Seeded summary %q", summaries[i].Title)
	}

	mindmaps := []entity.Mindmap{
		{Title: "Sindromes Pleuropulmonares", Category: "Pneumologia", FileURL: "https://cdn.example.com/mindmaps/sindromes-pleuropulmonares.png"},
	}
	for i := range mindmaps {
		var count int64
		db.Model(&entity.Mindmap{}).Where("title = ?", mindmaps[i].Title).Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(&mindmaps[i]).Error; err != nil {
			log.Fatalf("Failed to seed mindmap %q: %v", mindmaps[i].Title, err)
		}
		log.Printf("Seeded mindmap %q", mindmaps[i].Title)
	}

	log.Println("Seeding complete")
}
