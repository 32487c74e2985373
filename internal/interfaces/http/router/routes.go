package router

import (
	"github.com/carehouse/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers are the API handlers mounted under the versioned prefix
type Handlers struct {
	RevenueEntries *handler.RevenueEntryHandler
	Payouts        *handler.PayoutHandler
	Checks         *handler.CheckHandler
	Expenses       *handler.ExpenseHandler
	Reports        *handler.ReportHandler
	Directory      *handler.DirectoryHandler
}

// APIGroups builds the domain route groups. throttle runs ahead of the routes
// that rewrite many payout rows: operator recompute and batch rate saves.
func APIGroups(h Handlers, throttle ...gin.HandlerFunc) []*DomainGroup {
	entries := NewDomainGroup("revenue-entries", "/revenue-entries")
	entries.GET("", h.RevenueEntries.List).
		POST("", h.RevenueEntries.Create).
		GET("/:id", h.RevenueEntries.Get).
		PUT("/:id", h.RevenueEntries.Update).
		DELETE("/:id", h.RevenueEntries.Delete).
		GET("/:id/payouts", h.RevenueEntries.GetPayouts).
		POST("/:id/recompute-payouts", chain(throttle, h.RevenueEntries.RecomputePayouts)...)

	payouts := NewDomainGroup("payouts", "/payouts")
	payouts.GET("", h.Payouts.List).
		POST("/preview", h.Payouts.Preview)

	rates := NewDomainGroup("payout-rates", "/payout-rates")
	rates.GET("", h.Payouts.ListRates).
		POST("", h.Payouts.CreateRate).
		PUT("", chain(throttle, h.Payouts.SaveRates)...).
		GET("/:id", h.Payouts.GetRate).
		PUT("/:id", h.Payouts.UpdateRate)

	checks := NewDomainGroup("checks", "/checks")
	checks.GET("", h.Checks.List).
		POST("", h.Checks.Create).
		GET("/audit", h.Checks.AuditAll).
		GET("/:id", h.Checks.Get).
		PUT("/:id", h.Checks.Update).
		DELETE("/:id", h.Checks.Delete).
		GET("/:id/audit", h.Checks.Audit)

	expenses := NewDomainGroup("expenses", "/expenses")
	expenses.GET("", h.Expenses.List).
		POST("", h.Expenses.Create).
		GET("/:id", h.Expenses.Get).
		PUT("/:id", h.Expenses.Update).
		DELETE("/:id", h.Expenses.Delete).
		POST("/:id/pay", h.Expenses.MarkPaid)

	reports := NewDomainGroup("reports", "/reports")
	reports.GET("/daily", h.Reports.Daily).
		GET("/staff-payouts", h.Reports.StaffPayouts)

	houses := NewDomainGroup("houses", "/houses")
	houses.GET("", h.Directory.ListHouses).
		POST("", h.Directory.CreateHouse).
		GET("/:id", h.Directory.GetHouse).
		PUT("/:id", h.Directory.UpdateHouse)

	serviceCodes := NewDomainGroup("service-codes", "/service-codes")
	serviceCodes.GET("", h.Directory.ListServiceCodes).
		POST("", h.Directory.CreateServiceCode).
		GET("/:id", h.Directory.GetServiceCode).
		PUT("/:id", h.Directory.UpdateServiceCode)

	staff := NewDomainGroup("staff", "/staff")
	staff.GET("", h.Directory.ListStaff).
		POST("", h.Directory.CreateStaff).
		GET("/:id", h.Directory.GetStaff).
		PUT("/:id", h.Directory.UpdateStaff)

	patients := NewDomainGroup("patients", "/patients")
	patients.GET("", h.Directory.ListPatients).
		POST("", h.Directory.CreatePatient).
		GET("/:id", h.Directory.GetPatient).
		PUT("/:id", h.Directory.UpdatePatient)

	return []*DomainGroup{
		entries, payouts, rates, checks, expenses, reports,
		houses, serviceCodes, staff, patients,
	}
}

// RegisterAPI registers every domain group on r
func RegisterAPI(r *Router, h Handlers, throttle ...gin.HandlerFunc) {
	for _, group := range APIGroups(h, throttle...) {
		r.Register(group)
	}
}

func chain(middleware []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	handlers := make([]gin.HandlerFunc, 0, len(middleware)+1)
	handlers = append(handlers, middleware...)
	return append(handlers, h)
}
