// Package seed holds the reference data installed by the one-time setup.
package seed

import "github.com/noah-isme/army-personnel-api/internal/models"

func strPtr(s string) *string { return &s }

// Ranks is the default promotion ladder, levels 2 through 15.
var Ranks = []models.Rank{
	{Level: 2, Name: "Schütze", PointsRequired: 0, PointsFromPrevious: 0},
	{Level: 3, Name: "Gefreiter", PointsRequired: 100, PointsFromPrevious: 100},
	{Level: 4, Name: "Obergefreiter", PointsRequired: 250, PointsFromPrevious: 150},
	{Level: 5, Name: "Hauptgefreiter", PointsRequired: 400, PointsFromPrevious: 150},
	{Level: 6, Name: "Stabsgefreiter", PointsRequired: 600, PointsFromPrevious: 200},
	{Level: 7, Name: "Unteroffizier", PointsRequired: 850, PointsFromPrevious: 250},
	{Level: 8, Name: "Feldwebel", PointsRequired: 1150, PointsFromPrevious: 300},
	{Level: 9, Name: "Oberfeldwebel", PointsRequired: 1500, PointsFromPrevious: 350},
	{Level: 10, Name: "Hauptfeldwebel", PointsRequired: 1900, PointsFromPrevious: 400},
	{Level: 11, Name: "Stabsfeldwebel", PointsRequired: 2350, PointsFromPrevious: 450},
	{Level: 12, Name: "Leutnant", PointsRequired: 2850, PointsFromPrevious: 500},
	{Level: 13, Name: "Oberleutnant", PointsRequired: 3400, PointsFromPrevious: 550},
	{Level: 14, Name: "Hauptmann", PointsRequired: 4000, PointsFromPrevious: 600},
	{Level: 15, Name: "Oberst", PointsRequired: 4650, PointsFromPrevious: 650},
}

// SpecialPositions is the default catalog of bonus roles.
var SpecialPositions = []models.SpecialPosition{
	{Name: "Leitstellenausbilder", Difficulty: models.DifficultyEasy, BonusPointsPerWeek: 5, Description: strPtr("Leitstellenausbildung")},
	{Name: "Field Medic", Difficulty: models.DifficultyEasy, BonusPointsPerWeek: 5, Description: strPtr("Medizinische Versorgung")},
	{Name: "U1 Ausbilder", Difficulty: models.DifficultyMedium, BonusPointsPerWeek: 10, Description: strPtr("U1 Ausbildung")},
	{Name: "Aktenkunde Ausbilder", Difficulty: models.DifficultyMedium, BonusPointsPerWeek: 10, Description: strPtr("Aktenkunde Ausbildung")},
	{Name: "Personalabteilung", Difficulty: models.DifficultyHard, BonusPointsPerWeek: 15, Description: strPtr("Personalverwaltung")},
	{Name: "Drill Sergeant", Difficulty: models.DifficultyHard, BonusPointsPerWeek: 15, Description: strPtr("Grundausbildung")},
	{Name: "GWD Ausbilder", Difficulty: models.DifficultyHard, BonusPointsPerWeek: 15, Description: strPtr("GWD Ausbildung")},
}
