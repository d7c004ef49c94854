package database

import (
	"context"
	"fmt"

	"furniture-admin/internal/models"
	"furniture-admin/internal/obs"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InitialStock is the quantity every seeded product starts with.
const InitialStock = 20

type seedProduct struct {
	Name        string
	Description string
	Category    string
	Price       int64
}

var catalog = []seedProduct{
	{"Sofa Modern Minimalis 3 Tempat", "Sofa empuk dengan desain minimalis modern, cocok untuk ruang tamu", "Sofa", 4500000},
	{"Meja Makan Kayu Jati 6 Kursi", "Meja makan berkualitas tinggi dengan material kayu jati pilihan", "Meja Makan", 8500000},
	{"Tempat Tidur Minimalis King Size", "Tempat tidur dengan desain elegan dan busa premium", "Tempat Tidur", 7200000},
	{"Lemari Pakaian 3 Pintu Putih", "Lemari pakaian spacious dengan finishing putih bersih", "Lemari", 3500000},
	{"Rak Buku Dinding Floating", "Rak buku gantung dengan design kontemporer", "Rak", 850000},
	{"Kursi Gaming Ergonomis", "Kursi gaming dengan support lumbar dan bahan berkualitas", "Kursi", 2500000},
	{"Meja Kerja Kayu Walnut", "Meja kerja minimalis dengan kayu walnut alami", "Meja Kerja", 3800000},
	{"Buffet Kayu 2 Pintu Sliding", "Buffet penyimpanan dengan pintu sliding modern", "Buffet", 5500000},
	{"Kursi Sofa Tunggal Empuk", "Kursi sofa single dengan cushion empuk dan nyaman", "Sofa", 2200000},
	{"Meja Kopi Marmer Elegan", "Meja kopi dengan top marmer dan kaki besi modern", "Meja Kopi", 1800000},
}

// Seed inserts the furniture catalog with its opening stock when the
// products table is empty. Products and stock rows are written together.
func Seed(ctx context.Context, db *gorm.DB) (int, error) {
	inserted := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Product{}).Count(&count).Error; err != nil {
			return fmt.Errorf("count products: %w", err)
		}
		if count > 0 {
			return nil
		}

		for _, sp := range catalog {
			category := sp.Category
			p := models.Product{
				Name:        sp.Name,
				Description: sp.Description,
				Category:    &category,
				Price:       decimal.NewFromInt(sp.Price),
			}
			if err := tx.Create(&p).Error; err != nil {
				return fmt.Errorf("insert product %q: %w", sp.Name, err)
			}
			stock := models.ProductStock{ProductID: p.ID, Quantity: InitialStock}
			if err := tx.Omit("Product").Create(&stock).Error; err != nil {
				return fmt.Errorf("insert stock for %q: %w", sp.Name, err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if inserted > 0 {
		obs.Logger.Info("catalog_seeded", "products", inserted, "stock_each", InitialStock)
	}
	return inserted, nil
}
