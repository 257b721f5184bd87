package main

import (
	"database/sql"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/mtcolectivo/backend-colectivo/internal/app"
	"github.com/mtcolectivo/backend-colectivo/internal/pricing"
)

type seedTrip struct {
	nombre     string
	fecha      string
	dirSalida  string
	dirDestino string
	horIda     string
	horRegreso string
	pasajeros  int
	abonado    float64
	discount   bool
}

var trips = []seedTrip{
	{"Ana Lopez", "2024-06-01", "Centro", "Playa Grande", "9:00 am", "1:00 pm", 10, 1000, false},
	{"Luis Mora", "2024-06-03", "Terminal Norte", "Cantaritos Tour", "10:00 am", "2:00 pm", 6, 0, false},
	{"Colegio San Juan", "2024-06-08", "Colegio San Juan", "Amatitlan", "8:30 am", "4:30 pm", 38, 4000, true},
	{"Familia Reyes", "2024-06-10", "Plaza Central", "Tequila", "1:00 pm", "8:00 pm", 14, 0, false},
	{"Empresa Delta", "2024-06-15", "Parque Industrial", "Centro Historico", "7:00", "19:00", 20, 6000, false},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	if err := app.RunMigrations(dbURL); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	seedOrders(db)

	log.Println("Seeding completed successfully!")
}

func seedOrders(db *sql.DB) {
	engine := pricing.NewEngine(pricing.DefaultTable(), nil, zerolog.Nop())

	const insert = `
		INSERT INTO orders (
			id, nombre, fecha, dir_salida, dir_destino, hor_ida, hor_regreso,
			duracion, capacidadu, subtotal, descuento, total, abonado,
			fecha_abono, liquidar, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO NOTHING
	`

	for _, trip := range trips {
		quote := engine.Quote(trip.pasajeros, trip.dirDestino, trip.horIda, trip.horRegreso)

		balance := pricing.Recompute(quote.Total, 0, 0)
		if trip.discount {
			balance = pricing.ToggleDiscount(balance.Subtotal, 0, 0)
		}
		fechaAbono := ""
		if trip.abonado > 0 {
			paid, due, err := pricing.AddPayment(balance.Total, 0, trip.abonado)
			if err != nil {
				log.Fatalf("Failed to record seed payment for %s: %v", trip.nombre, err)
			}
			balance.Paid = paid
			balance.Due = due
			fechaAbono = trip.fecha
		}

		_, err := db.Exec(insert,
			uuid.NewString(), trip.nombre, trip.fecha, trip.dirSalida, trip.dirDestino,
			trip.horIda, trip.horRegreso, quote.DurationHours, int(quote.Tier),
			balance.Subtotal, balance.Discount, balance.Total, balance.Paid,
			fechaAbono, balance.Due, time.Now().UTC())
		if err != nil {
			log.Fatalf("Failed to seed order %s: %v", trip.nombre, err)
		}
		log.Printf("Seeded order %s (%d pax, total %.2f)", trip.nombre, trip.pasajeros, balance.Total)
	}
}
