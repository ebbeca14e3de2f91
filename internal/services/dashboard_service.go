package services

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"restaurant_pos/internal/models"
	"restaurant_pos/internal/store"
)

const dashboardTopN = 5

type RecentOrder struct {
	OrderID     uint               `json:"order_id"`
	TableID     *uint              `json:"table_id"`
	TableNumber string             `json:"table_number"`
	ItemsCount  int                `json:"items_count"`
	TotalAmount models.Money       `json:"total_amount"`
	Status      models.OrderStatus `json:"status"`
	OrderTime   time.Time          `json:"order_time"`
}

type PopularItem struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type StaffPerformance struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	OrderCount  int64  `json:"order_count"`
	Performance int    `json:"performance"`
}

type DashboardStats struct {
	TotalOrders      int64              `json:"total_orders"`
	TotalRevenue     models.Money       `json:"total_revenue"`
	AvgOrderValue    models.Money       `json:"avg_order_value"`
	ActiveTables     int64              `json:"active_tables"`
	TotalTables      int64              `json:"total_tables"`
	RecentOrders     []RecentOrder      `json:"recent_orders"`
	PopularItems     []PopularItem      `json:"popular_items"`
	StaffPerformance []StaffPerformance `json:"staff_performance"`
}

type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// Stats aggregates the figures shown on the manager dashboard. Performance is
// each waiter's order count as a percentage of the busiest waiter's.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	db := s.db.WithContext(ctx)
	stats := &DashboardStats{
		RecentOrders:     []RecentOrder{},
		PopularItems:     []PopularItem{},
		StaffPerformance: []StaffPerformance{},
	}

	if err := db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, store.Translate(err, "counting orders")
	}
	var revenue int64
	if err := db.Model(&models.Order{}).Select("CAST(COALESCE(SUM(total_amount_cents), 0) AS BIGINT)").Scan(&revenue).Error; err != nil {
		return nil, store.Translate(err, "summing revenue")
	}
	stats.TotalRevenue = models.Money(revenue)
	if stats.TotalOrders > 0 {
		stats.AvgOrderValue = models.Money(revenue / stats.TotalOrders)
	}

	err := db.Model(&models.Order{}).
		Where("status IN ?", []models.OrderStatus{models.OrderPending, models.OrderProcessing}).
		Where("table_id IS NOT NULL").
		Distinct("table_id").
		Count(&stats.ActiveTables).Error
	if err != nil {
		return nil, store.Translate(err, "counting active tables")
	}
	if err := db.Model(&models.Table{}).Count(&stats.TotalTables).Error; err != nil {
		return nil, store.Translate(err, "counting tables")
	}

	var recent []models.Order
	err = db.Preload("Table").Preload("Items").
		Order("order_date DESC").Order("id DESC").
		Limit(dashboardTopN).
		Find(&recent).Error
	if err != nil {
		return nil, store.Translate(err, "loading recent orders")
	}
	for _, o := range recent {
		ro := RecentOrder{
			OrderID:     o.ID,
			TableID:     o.TableID,
			TableNumber: "N/A",
			ItemsCount:  len(o.Items),
			TotalAmount: o.TotalAmount,
			Status:      o.Status,
			OrderTime:   o.OrderDate,
		}
		if o.Table != nil {
			ro.TableNumber = o.Table.Number
		}
		stats.RecentOrders = append(stats.RecentOrders, ro)
	}

	err = db.Table("menu_items").
		Select("menu_items.id AS id, menu_items.name AS name, COUNT(order_items.id) AS count").
		Joins("JOIN order_items ON order_items.menu_item_id = menu_items.id").
		Group("menu_items.id, menu_items.name").
		Order("count DESC").
		Limit(dashboardTopN).
		Scan(&stats.PopularItems).Error
	if err != nil {
		return nil, store.Translate(err, "loading popular items")
	}

	var perf []StaffPerformance
	err = db.Table("staff").
		Select("staff.id AS id, staff.name AS name, COUNT(orders.id) AS order_count").
		Joins("LEFT JOIN orders ON orders.waiter_id = staff.id").
		Group("staff.id, staff.name").
		Scan(&perf).Error
	if err != nil {
		return nil, store.Translate(err, "loading staff performance")
	}
	var busiest int64
	for _, p := range perf {
		busiest = max(busiest, p.OrderCount)
	}
	for i := range perf {
		if busiest > 0 {
			perf[i].Performance = int(perf[i].OrderCount * 100 / busiest)
		}
	}
	sort.SliceStable(perf, func(i, j int) bool { return perf[i].Performance > perf[j].Performance })
	if len(perf) > dashboardTopN {
		perf = perf[:dashboardTopN]
	}
	stats.StaffPerformance = append(stats.StaffPerformance, perf...)
	return stats, nil
}
