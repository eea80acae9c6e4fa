package main

import (
	"fmt"
	"log"

	"github.com/Arjun-407/voucherverse/config"
	"github.com/Arjun-407/voucherverse/models"
)

// Seeds the default voucher denominations when none exist yet.
func main() {
	if _, err := config.LoadConfig(); err != nil {
		log.Fatal("Failed to load config:", err)
	}
	config.InitDB()

	var existing int64
	if err := config.DB.Model(&models.VoucherType{}).Count(&existing).Error; err != nil {
		log.Fatal("Failed to count voucher types:", err)
	}
	if existing > 0 {
		fmt.Println("Voucher types already exist, skipping seed.")
		return
	}

	types := []models.VoucherType{
		{Name: "₹1000 Voucher", FaceValue: 1000, Price: 40, Active: true},
		{Name: "₹2000 Voucher", FaceValue: 2000, Price: 70, Active: true},
		{Name: "₹4000 Voucher", FaceValue: 4000, Price: 140, Active: true},
	}
	if err := config.DB.Create(&types).Error; err != nil {
		log.Fatal("Failed to seed voucher types:", err)
	}

	fmt.Println("Seeded voucher types.")
}
