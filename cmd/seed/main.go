package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/anhardeni/tps40-merak-sub001/internal/config"
	"github.com/anhardeni/tps40-merak-sub001/internal/database"
	"github.com/anhardeni/tps40-merak-sub001/internal/models"
	"github.com/anhardeni/tps40-merak-sub001/internal/refnumber"
	"github.com/anhardeni/tps40-merak-sub001/internal/services/documents"
	"github.com/anhardeni/tps40-merak-sub001/internal/utils"
	"github.com/anhardeni/tps40-merak-sub001/internal/vault"
	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

func main() {
	withDemo := flag.Bool("demo", false, "also create a demo CoCoTangki document")
	flag.Parse()

	fmt.Println("🌱 TPS40 Merak Seeder")
	fmt.Println(strings.Repeat("=", 60))

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("🔨 Running database migrations...")
	if err := db.AutoMigrate(); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	fmt.Println("✅ Migrations complete")

	// 1. Reference catalogs
	fmt.Println("📚 Creating reference catalogs...")
	catalogs := []interface{}{
		&[]models.DocumentType{
			{Code: "1", Name: "CoCoTangki"},
			{Code: "BC16", Name: "BC 1.6 Pemberitahuan Pabean Pemasukan ke PLB", Direction: "in"},
			{Code: "BC20", Name: "BC 2.0 Pemberitahuan Impor Barang", Direction: "out"},
			{Code: "BC30", Name: "BC 3.0 Pemberitahuan Ekspor Barang", Direction: "in"},
			{Code: "BC11", Name: "BC 1.1 Manifest", Direction: "in"},
		},
		&[]models.Tps{{Code: "MRK1", Name: "TPS Tangki Merak"}},
		&[]models.Warehouse{{Code: "GD01", Name: "Tank Farm 1", TpsCode: "MRK1"}},
		&[]models.Conveyance{{Code: "1", Name: "Kapal Laut"}, {Code: "3", Name: "Pipa"}},
		&[]models.Unit{{Code: "LITER", Name: "Liter"}, {Code: "KGM", Name: "Kilogram"}, {Code: "MTQ", Name: "Meter Kubik"}},
		&[]models.Packaging{{Code: "VL", Name: "Bulk, liquid"}, {Code: "VQ", Name: "Bulk, liquefied gas"}},
	}
	for _, rows := range catalogs {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(rows).Error; err != nil {
			log.Fatalf("❌ Failed to seed catalog: %v", err)
		}
	}

	// 2. Administrator
	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		log.Fatalf("❌ SEED_ADMIN_PASSWORD is required")
	}
	var admins int64
	db.Model(&models.UserAuth{}).Where("role = ?", models.RoleAdmin).Count(&admins)
	if admins == 0 {
		hash, err := utils.HashPassword(adminPassword)
		if err != nil {
			log.Fatalf("❌ Failed to hash password: %v", err)
		}
		admin := models.UserAuth{Username: "admin", Email: "admin@localhost", Name: "Administrator", Password: hash, Role: models.RoleAdmin, IsActive: true}
		if err := db.Create(&admin).Error; err != nil {
			log.Fatalf("❌ Failed to create admin: %v", err)
		}
		fmt.Println("👤 Created user 'admin'")
	} else {
		fmt.Printf("⚠️  %d admin user(s) already exist, skipping\n", admins)
	}

	// 3. Upload credential from the environment, if given
	if user := os.Getenv("SEED_BEACUKAI_USERNAME"); user != "" {
		sealer, err := vault.NewSealer(cfg.EncKey)
		if err != nil {
			log.Fatalf("❌ Invalid ENC_KEY: %v", err)
		}
		secret := os.Getenv("SEED_BEACUKAI_PASSWORD")
		_, err = vault.New(db, sealer).Save(context.Background(), vault.Input{
			Service:  vault.ServiceCoCoTangki,
			Username: user,
			Secret:   &secret,
			Endpoint: os.Getenv("SEED_BEACUKAI_ENDPOINT"),
			Active:   true,
			TestMode: true,
			Actor:    "seed",
		})
		if err != nil {
			log.Fatalf("❌ Failed to store credential: %v", err)
		}
		fmt.Printf("🔑 Stored credential for %s (test mode)\n", vault.ServiceCoCoTangki)
	}

	// 4. Demo document
	if *withDemo {
		refs, err := refnumber.NewGenerator(cfg.RefNumber.Prefix, cfg.Location)
		if err != nil {
			log.Fatalf("❌ Invalid REF_PREFIX: %v", err)
		}
		doc, err := documents.NewService(db, refs).Create(context.Background(), &models.Document{
			KdDok:        "1",
			KdTps:        "MRK1",
			KdGudang:     "GD01",
			KdAngkut:     "1",
			NmAngkut:     "MT SINAR MERAK",
			NoVoyFlight:  "V.025",
			CallSign:     "YBMK",
			KdPelMuat:    "SGSIN",
			KdPelBongkar: "IDMRK",
			TglTiba:      "20251101",
			JamTiba:      "080000",
			Tangki: []models.Tangki{
				{NoTangki: "TK-01", KdDokInout: "BC16", NoDokInout: "000123", TglDokInout: "20251031", JenisIsi: "SOLAR", KdSatuan: "LITER", KdKemasan: "VL", JmlSatuan: decimal.NewFromInt(100), Kapasitas: decimal.NewFromInt(500000)},
				{NoTangki: "TK-02", KdDokInout: "BC16", NoDokInout: "000124", TglDokInout: "20251031", JenisIsi: "PERTALITE", KdSatuan: "LITER", KdKemasan: "VL", JmlSatuan: decimal.RequireFromString("2500.5"), Kapasitas: decimal.NewFromInt(500000)},
			},
		}, "seed")
		if err != nil {
			log.Fatalf("❌ Failed to create demo document: %v", err)
		}
		fmt.Printf("📄 Created demo document %s with %d tangki\n", doc.RefNumber, len(doc.Tangki))
	}

	fmt.Println()
	fmt.Println("✅ Seeding complete")
}
