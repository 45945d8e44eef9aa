package main

import (
	"fmt"
	"log"
	"os"

	"eventchat/backend/internal/models"
	"eventchat/backend/internal/storage"

	"github.com/joho/godotenv"
	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	s := storage.NewStorageService(db, nil) // no redis needed for admin CLI

	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "seed-event":
		if len(os.Args) < 4 {
			fmt.Println("Usage: admin seed-event <host_user_id> <title> [tags...]")
			os.Exit(1)
		}
		event := &models.Event{
			HostID: os.Args[2],
			Title:  os.Args[3],
			Tags:   pq.StringArray(os.Args[4:]),
		}
		if err := s.SaveEvent(event); err != nil {
			log.Fatalf("error seeding event: %v", err)
		}
		fmt.Printf("Event %s created.\n", event.ID)

	case "accept":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin accept <event_id> <user_id>")
			os.Exit(1)
		}
		if err := s.AcceptEventParticipant(os.Args[2], os.Args[3]); err != nil {
			log.Fatalf("error accepting participant: %v", err)
		}
		fmt.Printf("User %s accepted into event %s.\n", os.Args[3], os.Args[2])

	case "deactivate":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin deactivate <room_id> <user_id>")
			os.Exit(1)
		}
		if err := s.DeactivateParticipant(os.Args[2], os.Args[3]); err != nil {
			log.Fatalf("error deactivating participant: %v", err)
		}
		fmt.Printf("User %s deactivated in room %s.\n", os.Args[3], os.Args[2])

	case "stats":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin stats <room_id>")
			os.Exit(1)
		}
		roomID := os.Args[2]
		room, err := s.GetRoomByID(roomID)
		if err != nil {
			log.Fatalf("error loading room: %v", err)
		}
		total, err := s.CountMessages(roomID)
		if err != nil {
			log.Fatalf("error counting messages: %v", err)
		}
		unreadA, _ := s.CountUnread(roomID, room.UserAID)
		unreadB, _ := s.CountUnread(roomID, room.UserBID)
		fmt.Printf("Room %s (event %s): %d messages, last activity %s\n",
			room.RoomID, room.EventID, total, room.LastMessageAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("  %s: %d unread\n", room.UserAID, unreadA)
		fmt.Printf("  %s: %d unread\n", room.UserBID, unreadB)

	default:
		usage()
	}
}

func usage() {
	fmt.Println("Usage: admin <seed-event|accept|deactivate|stats> [args]")
	os.Exit(1)
}
