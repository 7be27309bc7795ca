// cmd/seed-demo - Loads a demo cohort for local development
package main

import (
	"fmt"
	"log"
	"time"

	"cohortquest/database"
	"cohortquest/models"
	"cohortquest/progression"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type demoStudent struct {
	Username string
	Email    string
	Floor    string
	XP       int
	Streak   int
	Mentor   string
}

var demoMentors = []struct {
	Username string
	Email    string
	Floor    string
}{
	{"jennifer", "jennifer@mentor.example", "Floor A"},
	{"david", "david@mentor.example", "Floor B"},
}

var demoStudents = []demoStudent{
	{"alex", "alex@student.example", "Floor A", 2450, 7, "jennifer"},
	{"sarah", "sarah@student.example", "Floor A", 3200, 12, "jennifer"},
	{"mike", "mike@student.example", "Floor B", 1800, 3, "david"},
	{"emma", "emma@student.example", "Floor B", 2800, 5, "david"},
}

var demoMissions = []models.Mission{
	{Title: "Complete React Tutorial", Type: "tutorial", Difficulty: "medium", XP: 100},
	{Title: "Submit Project Proposal", Type: "project", Difficulty: "medium", XP: 150},
	{Title: "Attend Team Meeting", Type: "team", Difficulty: "easy", XP: 50},
	{Title: "Build Calculator App", Type: "project", Difficulty: "hard", XP: 200},
	{Title: "Code Review Session", Type: "challenge", Difficulty: "easy", XP: 75},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	database.InitDB()
	db := database.GetDB()

	calc := progression.MustCalculator(progression.DefaultLevels())

	password, err := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash demo password:", err)
	}

	// Admin
	admin := models.User{
		Username: "admin",
		Password: string(password),
		Role:     models.RoleAdmin,
	}
	adminEmail := "admin@cohortquest.example"
	admin.Email = &adminEmail
	upsertUser(db, &admin)

	// Floorwing
	floorwing := models.User{
		Username: "lisa",
		Password: string(password),
		Role:     models.RoleFloorwing,
		Floor:    "Floor A",
	}
	lisaEmail := "lisa@floorwing.example"
	floorwing.Email = &lisaEmail
	upsertUser(db, &floorwing)

	// Mentors
	mentorIDs := make(map[string]uint, len(demoMentors))
	for _, m := range demoMentors {
		email := m.Email
		mentor := models.User{
			Username: m.Username,
			Email:    &email,
			Password: string(password),
			Role:     models.RoleMentor,
			Floor:    m.Floor,
		}
		upsertUser(db, &mentor)
		mentorIDs[m.Username] = mentor.ID
	}

	// Missions
	for i := range demoMissions {
		var count int64
		db.Model(&models.Mission{}).Where("title = ?", demoMissions[i].Title).Count(&count)
		if count == 0 {
			if err := db.Create(&demoMissions[i]).Error; err != nil {
				log.Fatal("Failed to create mission:", err)
			}
		} else {
			db.Where("title = ?", demoMissions[i].Title).First(&demoMissions[i])
		}
	}

	// Students with assignments
	for _, s := range demoStudents {
		email := s.Email
		mentorID := mentorIDs[s.Mentor]
		now := time.Now()
		student := models.User{
			Username:     s.Username,
			Email:        &email,
			Password:     string(password),
			Role:         models.RoleStudent,
			Floor:        s.Floor,
			MentorID:     &mentorID,
			XP:           s.XP,
			Level:        calc.Level(s.XP),
			Streak:       s.Streak,
			BestStreak:   s.Streak,
			LastActivity: &now,
		}
		upsertUser(db, &student)

		for _, mission := range demoMissions {
			if mission.Floor != "" && mission.Floor != s.Floor {
				continue
			}
			var count int64
			db.Model(&models.UserMission{}).Where("user_id = ? AND mission_id = ?", student.ID, mission.ID).Count(&count)
			if count == 0 {
				db.Create(&models.UserMission{UserID: student.ID, MissionID: mission.ID})
			}
		}
	}

	fmt.Println("Demo cohort seeded. All demo accounts use password \"demo1234\".")
}

// upsertUser creates the user if the username is free, otherwise loads
// the existing row into user.
func upsertUser(db *gorm.DB, user *models.User) {
	var existing models.User
	err := db.Where("username = ?", user.Username).First(&existing).Error
	if err == nil {
		*user = existing
		return
	}
	if err != gorm.ErrRecordNotFound {
		log.Fatal("Failed to look up user:", err)
	}
	if err := db.Create(user).Error; err != nil {
		log.Fatal("Failed to create user:", err)
	}
}
