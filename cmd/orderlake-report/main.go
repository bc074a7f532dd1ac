package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/lmittmann/tint"
	"github.com/olekukonko/tablewriter"
	flag "github.com/spf13/pflag"

	"github.com/ecomlabs/orderlake/pkg/analytics"
	"github.com/ecomlabs/orderlake/pkg/geo"
	"github.com/ecomlabs/orderlake/pkg/ingest"
)

func main() {
	ordersCSV := flag.String("orders-csv", "data/df.csv", "Path to the joined order dataset CSV")
	geolocationCSV := flag.String("geolocation-csv", "data/geolocation.csv", "Path to the geolocation dataset CSV")
	startFlag := flag.String("start", "", "Start of the date range (YYYY-MM-DD), defaults to the dataset span")
	endFlag := flag.String("end", "", "End of the date range (YYYY-MM-DD), defaults to the dataset span")
	showGeo := flag.Bool("geo", false, "Also print the resolved geo points")
	verbose := flag.Bool("verbose", false, "Enable verbose logging")
	flag.Parse()

	log := newLogger(*verbose)

	records, err := ingest.LoadOrdersFile(*ordersCSV)
	if err != nil {
		log.Error("Failed to load orders", "error", err)
		os.Exit(1)
	}

	rng, ok := analytics.Span(records)
	if !ok {
		log.Warn("No approved orders in the dataset; nothing to report")
	}
	if *startFlag != "" {
		t, err := time.Parse("2006-01-02", *startFlag)
		if err != nil {
			log.Error("Failed to parse start date", "error", err)
			os.Exit(1)
		}
		rng.Start = t
	}
	if *endFlag != "" {
		t, err := time.Parse("2006-01-02", *endFlag)
		if err != nil {
			log.Error("Failed to parse end date", "error", err)
			os.Exit(1)
		}
		rng.End = t.Add(24*time.Hour - time.Nanosecond)
	}

	sum := analytics.Summarize(records, rng)
	printSummary(sum)

	if *showGeo {
		geoPoints, err := ingest.LoadGeolocationFile(*geolocationCSV)
		if err != nil {
			log.Error("Failed to load geolocation", "error", err)
			os.Exit(1)
		}
		printGeo(geo.Resolve(geoPoints))
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

func printSummary(sum *analytics.Summary) {
	fmt.Println("Range:", sum.Range.Start.Format("2006-01-02"), "to", sum.Range.End.Format("2006-01-02"))
	fmt.Println("Orders in range:", sum.Filtered, "of", sum.Records)
	if sum.AverageSpend != nil {
		fmt.Printf("Average spend per customer: %.2f\n", *sum.AverageSpend)
	}
	if sum.MostCommonScore != nil {
		fmt.Println("Most common review score:", *sum.MostCommonScore)
	}
	if sum.MostCommonState != nil {
		fmt.Println("Most common state:", *sum.MostCommonState)
	}
	if sum.MostCommonStatus != nil {
		fmt.Println("Most common order status:", *sum.MostCommonStatus)
	}
	fmt.Println()

	daily := tablewriter.NewWriter(os.Stdout)
	daily.SetAutoWrapText(false)
	daily.SetAutoFormatHeaders(false)
	daily.SetHeader([]string{"Day", "Orders", "Revenue"})
	for _, row := range sum.DailyOrders {
		daily.Append([]string{
			row.Day.Format("2006-01-02"),
			fmt.Sprintf("%d", row.Orders),
			fmt.Sprintf("%.2f", row.Revenue),
		})
	}
	daily.Render()

	categories := tablewriter.NewWriter(os.Stdout)
	categories.SetAutoWrapText(false)
	categories.SetAutoFormatHeaders(false)
	categories.SetHeader([]string{"Most Sold", "Items", "Fewest Sold", "Items"})
	for i := 0; i < len(sum.TopCategories) || i < len(sum.BottomCategories); i++ {
		row := []string{"", "", "", ""}
		if i < len(sum.TopCategories) {
			row[0] = sum.TopCategories[i].Category
			row[1] = fmt.Sprintf("%d", sum.TopCategories[i].Count)
		}
		if i < len(sum.BottomCategories) {
			row[2] = sum.BottomCategories[i].Category
			row[3] = fmt.Sprintf("%d", sum.BottomCategories[i].Count)
		}
		categories.Append(row)
	}
	categories.Render()

	scores := tablewriter.NewWriter(os.Stdout)
	scores.SetAutoFormatHeaders(false)
	scores.SetHeader([]string{"Review Score", "Count"})
	for _, row := range sum.ReviewScores {
		scores.Append([]string{fmt.Sprintf("%d", row.Score), fmt.Sprintf("%d", row.Count)})
	}
	scores.Render()

	states := tablewriter.NewWriter(os.Stdout)
	states.SetAutoFormatHeaders(false)
	states.SetHeader([]string{"State", "Customers"})
	for _, row := range sum.StateCustomers {
		states.Append([]string{row.State, fmt.Sprintf("%d", row.Customers)})
	}
	states.Render()

	statuses := tablewriter.NewWriter(os.Stdout)
	statuses.SetAutoFormatHeaders(false)
	statuses.SetHeader([]string{"Order Status", "Count"})
	for _, row := range sum.StatusCounts {
		statuses.Append([]string{row.Status, fmt.Sprintf("%d", row.Count)})
	}
	statuses.Render()

	buckets := tablewriter.NewWriter(os.Stdout)
	buckets.SetAutoFormatHeaders(false)
	buckets.SetHeader([]string{"Price Category", "Revenue", "Items"})
	for _, row := range sum.RevenueByPrice {
		buckets.Append([]string{
			string(row.Bucket),
			fmt.Sprintf("%.2f", row.Revenue),
			fmt.Sprintf("%d", row.Items),
		})
	}
	buckets.Render()
}

func printGeo(points map[string]geo.Point) {
	prefixes := make([]string, 0, len(points))
	for prefix := range points {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Zip Prefix", "Lat", "Lng"})
	for _, prefix := range prefixes {
		p := points[prefix]
		table.Append([]string{
			prefix,
			fmt.Sprintf("%.5f", p.Latitude),
			fmt.Sprintf("%.5f", p.Longitude),
		})
	}
	table.Render()
}
