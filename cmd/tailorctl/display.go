package main

import (
	"fmt"
	"strings"

	"tailor-console/internal/core"
)

func printDeliveries(rows []core.DeliveryRow) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 96))
	fmt.Printf("  %-92s\n", "DELIVERIES")
	fmt.Println(strings.Repeat("=", 96))
	if len(rows) == 0 {
		fmt.Println("  No deliveries found.")
		fmt.Println(strings.Repeat("=", 96))
		return
	}
	fmt.Printf("  %-8s %-22s %-12s %-12s %10s %10s %10s %10s\n",
		"ID", "CUSTOMER", "STATUS", "DATE", "TOTAL", "ADVANCE", "RECEIVED", "BALANCE")
	fmt.Println(strings.Repeat("-", 96))
	for _, r := range rows {
		marker := " "
		if r.IsBlocked {
			marker = "!"
		}
		fmt.Printf(" %s%-8s %-22s %-12s %-12s %10s %10s %10s %10s\n",
			marker, r.DisplayID(), r.CustomerName, r.Status,
			r.DeliveryDate.Format("2006-01-02"),
			r.TotalAmount.StringFixed(2), r.AdvanceAmount.StringFixed(2),
			r.ReceivedAmount.StringFixed(2), r.BalanceAmount.StringFixed(2))
	}
	fmt.Println(strings.Repeat("-", 96))
	t := core.GrandTotals(rows)
	fmt.Printf("  %-8d %-22s %-12s %-12s %10s %10s %10s %10s\n",
		len(rows), "", "", "",
		t.Total.StringFixed(2), t.Advance.StringFixed(2),
		t.Received.StringFixed(2), t.Balance.StringFixed(2))
	fmt.Println(strings.Repeat("=", 96))
}

func printStats(s *core.Stats) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 48))
	fmt.Printf("  %-44s\n", "DELIVERY STATS")
	fmt.Println(strings.Repeat("=", 48))
	fmt.Printf("  %-20s %10d\n", "Total orders", s.TotalOrders)
	fmt.Printf("  %-20s %10d\n", "Pending", s.Pending)
	fmt.Printf("  %-20s %10d\n", "In progress", s.InProgress)
	fmt.Printf("  %-20s %10d\n", "Completed", s.Completed)
	fmt.Printf("  %-20s %10d\n", "Delivered", s.Delivered)
	fmt.Printf("  %-20s %10s\n", "Revenue", s.TotalRevenue.StringFixed(2))
	fmt.Printf("  %-20s %10s\n", "Outstanding", s.TotalBalance.StringFixed(2))
	fmt.Println(strings.Repeat("=", 48))
}

func printReceipts(rows []core.Receipt) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 72))
	fmt.Printf("  %-68s\n", "RECEIPTS")
	fmt.Println(strings.Repeat("=", 72))
	if len(rows) == 0 {
		fmt.Println("  No receipts found.")
		fmt.Println(strings.Repeat("=", 72))
		return
	}
	fmt.Printf("  %-12s %-12s %10s  %s\n", "RECEIPT", "DATE", "AMOUNT", "REMARKS")
	fmt.Println(strings.Repeat("-", 72))
	for _, r := range rows {
		fmt.Printf("  %-12s %-12s %10s  %s\n",
			r.ReceiptID, r.ReceiptDate.Format("2006-01-02"),
			r.ReceiptAmount.StringFixed(2), r.Remarks)
	}
	fmt.Println(strings.Repeat("=", 72))
}

func printCompanies(rows []core.Company) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 64))
	fmt.Printf("  %-60s\n", "COMPANIES")
	fmt.Println(strings.Repeat("=", 64))
	fmt.Printf("  %-4s %-32s %-8s %s\n", "ID", "NAME", "CCY", "")
	fmt.Println(strings.Repeat("-", 64))
	for _, c := range rows {
		def := ""
		if c.IsDefault {
			def = "(default)"
		}
		fmt.Printf("  %-4d %-32s %-8s %s\n", c.ID, c.Name, c.Currency, def)
	}
	fmt.Println(strings.Repeat("=", 64))
}

func printCustomers(rows []core.Customer) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 72))
	fmt.Printf("  %-68s\n", "CUSTOMERS")
	fmt.Println(strings.Repeat("=", 72))
	if len(rows) == 0 {
		fmt.Println("  No customers found.")
		fmt.Println(strings.Repeat("=", 72))
		return
	}
	fmt.Printf("  %-10s %-26s %-16s %10s %6s\n", "CODE", "NAME", "PHONE", "BALANCE", "PTS")
	fmt.Println(strings.Repeat("-", 72))
	for _, c := range rows {
		fmt.Printf("  %-10s %-26s %-16s %10s %6d\n",
			c.CustomerID, c.Name, c.Phone, c.Balance.StringFixed(2), c.Points)
	}
	fmt.Println(strings.Repeat("=", 72))
}

func printMaterials(rows []core.Material) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 56))
	fmt.Printf("  %-52s\n", "MATERIALS")
	fmt.Println(strings.Repeat("=", 56))
	fmt.Printf("  %-4s %-36s %10s\n", "ID", "NAME", "PRICE")
	fmt.Println(strings.Repeat("-", 56))
	for _, m := range rows {
		fmt.Printf("  %-4d %-36s %10s\n", m.ID, m.Name, m.Price.StringFixed(2))
	}
	fmt.Println(strings.Repeat("=", 56))
}

func printSales(rows []core.Sale) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("  %-76s\n", "SALES")
	fmt.Println(strings.Repeat("=", 80))
	if len(rows) == 0 {
		fmt.Println("  No sales found.")
		fmt.Println(strings.Repeat("=", 80))
		return
	}
	fmt.Printf("  %-14s %-24s %-12s %-12s %10s\n", "NUMBER", "CUSTOMER", "DATE", "STATUS", "TOTAL")
	fmt.Println(strings.Repeat("-", 80))
	for _, s := range rows {
		fmt.Printf("  %-14s %-24s %-12s %-12s %10s\n",
			s.SaleNumber, s.CustomerName, s.Date.Format("2006-01-02"),
			s.Status, s.TotalAmount.StringFixed(2))
	}
	fmt.Println(strings.Repeat("=", 80))
}

func printServices(rows []core.Service) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 56))
	fmt.Printf("  %-52s\n", "SERVICES")
	fmt.Println(strings.Repeat("=", 56))
	fmt.Printf("  %-4s %-36s %10s\n", "ID", "NAME", "PRICE")
	fmt.Println(strings.Repeat("-", 56))
	for _, s := range rows {
		fmt.Printf("  %-4d %-36s %10s\n", s.ID, s.Name, s.Price.StringFixed(2))
	}
	fmt.Println(strings.Repeat("=", 56))
}
