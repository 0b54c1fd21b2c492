package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"landscaping/internal/config"
	"landscaping/internal/database"
	"landscaping/internal/domain/billing"
	"landscaping/internal/domain/directory"
	"landscaping/internal/domain/job"
	"landscaping/internal/domain/quote"
	"landscaping/internal/repository"
	"landscaping/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL, database.Options{Debug: cfg.DBDebug})
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("migrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	for _, table := range []string{"payments", "tasks", "job_members", "jobs", "quotes", "members", "crews", "clients"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("clean %s: %v", table, err)
		}
	}

	app := server.New(server.Deps{Store: repository.NewStore(db)})
	ctx := context.Background()

	must := func(err error) {
		if err != nil {
			log.Fatal(err)
		}
	}

	// ================== DIRECTORY ==================
	log.Println("Creating clients, crews and members...")
	clients := []directory.ClientInput{
		{Name: "Ann Fletcher", Address: "14 Birch Lane", Phone: "555-0101", Email: "ann@example.com"},
		{Name: "Oakridge HOA", Address: "200 Oakridge Dr", Phone: "555-0102"},
		{Name: "Marco Diaz", Address: "7 Willow Ct", Email: "marco@example.com"},
	}
	clientIDs := make([]int64, 0, len(clients))
	for _, in := range clients {
		c, err := app.Directory.CreateClient(ctx, in)
		must(err)
		clientIDs = append(clientIDs, c.ID)
	}

	north, err := app.Directory.CreateCrew(ctx, directory.NameInput{Name: "North crew"})
	must(err)
	south, err := app.Directory.CreateCrew(ctx, directory.NameInput{Name: "South crew"})
	must(err)

	var memberIDs []int64
	for _, name := range []string{"Sam", "Priya", "Jonas", "Leah"} {
		m, err := app.Directory.CreateMember(ctx, directory.NameInput{Name: name})
		must(err)
		memberIDs = append(memberIDs, m.ID)
	}

	// ================== QUOTES ==================
	log.Println("Creating quotes...")
	validUntil := time.Now().AddDate(0, 1, 0).Format("2006-01-02")
	q1, err := app.Quotes.Create(ctx, quote.CreateInput{ClientID: clientIDs[0], Description: "Spring cleanup and mulch", EstimatedHours: 6, EstimatedCost: 420, ValidUntil: validUntil})
	must(err)
	q2, err := app.Quotes.Create(ctx, quote.CreateInput{ClientID: clientIDs[1], Description: "Weekly common-area mowing", EstimatedHours: 3, EstimatedCost: 180})
	must(err)
	q3, err := app.Quotes.Create(ctx, quote.CreateInput{ClientID: clientIDs[2], Description: "Paver patio", EstimatedHours: 24, EstimatedCost: 3800})
	must(err)
	_, err = app.Quotes.Create(ctx, quote.CreateInput{ClientID: clientIDs[2], Description: "Hedge trimming"})
	must(err)

	for _, id := range []int64{q1.ID, q2.ID, q3.ID} {
		_, err := app.Quotes.Send(ctx, id)
		must(err)
	}
	_, err = app.Quotes.Decline(ctx, q3.ID)
	must(err)
	accepted, err := app.Quotes.Accept(ctx, q1.ID)
	must(err)

	// ================== JOBS ==================
	log.Println("Creating jobs...")
	now := time.Now().UTC()
	day := func(offset int) string { return now.AddDate(0, 0, offset).Format("2006-01-02") }

	mowing := make([]int64, 0, 4)
	for i := 0; i < 4; i++ {
		j, err := app.Jobs.Create(ctx, job.Input{
			ClientID:      clientIDs[1],
			Description:   fmt.Sprintf("Common-area mowing week %d", i+1),
			ScheduledDate: day(-21 + 7*i),
			CrewID:        &south.ID,
			MemberIDs:     memberIDs[2:],
		})
		must(err)
		mowing = append(mowing, j.ID)
	}

	cleanup := accepted.Job.ID
	_, err = app.Jobs.Update(ctx, cleanup, job.Input{
		ClientID:      clientIDs[0],
		Description:   accepted.Job.Description,
		ScheduledDate: day(2),
		CrewID:        &north.ID,
		MemberIDs:     memberIDs[:2],
	})
	must(err)
	for _, task := range []string{"Edge beds", "Spread mulch", "Haul debris"} {
		_, err := app.Jobs.AddTask(ctx, cleanup, task)
		must(err)
	}

	// ================== LIFECYCLE ==================
	log.Println("Completing, invoicing and collecting...")
	hours, cost := 3.0, 180.0
	for i, id := range mowing[:3] {
		_, err := app.Jobs.UpdateStatus(ctx, id, "In progress")
		must(err)
		_, err = app.Jobs.Complete(ctx, id, job.CompleteInput{ActualHours: &hours, ActualCost: &cost})
		must(err)
		_, err = app.Billing.MarkInvoiceSent(ctx, id)
		must(err)

		switch i {
		case 0:
			_, err = app.Billing.RecordPayment(ctx, id, billing.PaymentInput{Amount: 180, Method: "Check"})
		case 1:
			_, err = app.Billing.RecordPayment(ctx, id, billing.PaymentInput{Amount: 100, Method: "Card"})
		}
		must(err)
	}
	_, err = app.Jobs.UpdateStatus(ctx, mowing[3], "In progress")
	must(err)
	_, err = app.Jobs.NotifyOnMyWay(ctx, mowing[3])
	must(err)

	log.Printf("Seed complete: %d clients, 2 crews, %d members, 4 quotes, %d jobs", len(clientIDs), len(memberIDs), len(mowing)+1)
}
