package handler

import (
	"bytes"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"cloud.google.com/go/datastore"
	"github.com/labstack/echo/v4"
	"github.com/olivere/elastic/v7"
	"github.com/xuri/excelize/v2"

	"github.com/structsheet/structsheet/internal/logger"
	"github.com/structsheet/structsheet/pkg/sheetgrid"
	"github.com/structsheet/structsheet/pkg/sheetser"
	"github.com/structsheet/structsheet/pkg/source"
)

// Product is the catalog record exposed by the demo export endpoints.
type Product struct {
	Name      string  `json:"name" sheet:"Product Name"`
	Price     float64 `json:"price" sheet:"Unit Price"`
	Category  string  `json:"category"`
	Available bool    `json:"available"`
	Stock     *int    `json:"stock"`
	AddedAt   time.Time
	Internal  string `sheet:"-"`
}

// Order is the row shape streamed by the SQL export endpoint.
type Order struct {
	ID       int64   `sheet:"Order ID"`
	Customer string  `sheet:"Customer"`
	Total    float64 `sheet:"Total"`
}

// ExportHandler serves spreadsheet downloads backed by the available
// record sources. DB, ES and DS are nil when the matching backend is
// not configured; their endpoints report 503 in that case.
type ExportHandler struct {
	DB *sql.DB
	ES *elastic.Client
	DS *datastore.Client
}

func NewExportHandler(db *sql.DB, es *elastic.Client, ds *datastore.Client) *ExportHandler {
	return &ExportHandler{DB: db, ES: es, DS: ds}
}

// ExportProductsHandler generates a styled catalog workbook from an
// in-memory dataset.
func (h *ExportHandler) ExportProductsHandler(c echo.Context) error {
	ctx := c.Request().Context()
	logger.InfoLog(ctx, "Exporting product catalog")

	f := excelize.NewFile()
	sheet, err := sheetgrid.New(f, "Products")
	if err != nil {
		return ResponseError(c, http.StatusInternalServerError, "Failed to create worksheet", err)
	}
	sheet.TrackWidths()

	ser := sheetser.New(sheet, sheetser.WithLogger(logger.Logger()))

	headerStyle, err := sheet.Style(&sheetgrid.StyleTemplate{
		Font: &sheetgrid.FontTemplate{Bold: true},
		Fill: &sheetgrid.FillTemplate{Color: "#C6E0B4"},
	})
	if err != nil {
		return ResponseError(c, http.StatusInternalServerError, "Failed to build header style", err)
	}
	if err := ser.RegisterHeadersWithFormat(0, 0, Product{}, headerStyle); err != nil {
		return ResponseError(c, http.StatusInternalServerError, "Failed to register layout", err)
	}

	count, err := source.Export(ser, source.NewSliceSource(sampleProducts()...))
	if err != nil {
		return ResponseError(c, http.StatusInternalServerError, "Failed to serialize products", err)
	}
	if err := sheet.FitColumns(); err != nil {
		return ResponseError(c, http.StatusInternalServerError, "Failed to size columns", err)
	}
	logger.InfoLog(ctx, "Serialized %d products", count)

	return writeWorkbook(c, f, "products.xlsx")
}

// ExportProductsFromYAMLHandler builds the catalog workbook from a
// layout document on disk instead of struct tags.
func (h *ExportHandler) ExportProductsFromYAMLHandler(c echo.Context) error {
	ctx := c.Request().Context()

	data, err := os.ReadFile("product_layout.yaml")
	if err != nil {
		return ResponseError(c, http.StatusInternalServerError, "Failed to read layout file", err)
	}
	cfg, err := sheetgrid.ParseLayout(data)
	if err != nil {
		return ResponseError(c, http.StatusInternalServerError, "Failed to parse layout file", err)
	}

	f := excelize.NewFile()
	sheet, err := sheetgrid.New(f, "Products")
	if err != nil {
		return ResponseError(c, http.StatusInternalServerError, "Failed to create worksheet", err)
	}

	ser := sheetser.New(sheet, sheetser.WithLogger(logger.Logger()))
	if err := sheet.RegisterLayout(ser, cfg); err != nil {
		return ResponseError(c, http.StatusInternalServerError, "Failed to register layout", err)
	}

	count, err := source.Export(ser, source.NewSliceSource(sampleProducts()...))
	if err != nil {
		return ResponseError(c, http.StatusInternalServerError, "Failed to serialize products", err)
	}
	logger.InfoLog(ctx, "Serialized %d products from YAML layout", count)

	return writeWorkbook(c, f, "products_layout.xlsx")
}

// ExportOrdersHandler streams the orders table into a workbook.
func (h *ExportHandler) ExportOrdersHandler(c echo.Context) error {
	ctx := c.Request().Context()
	if h.DB == nil {
		return ResponseError(c, http.StatusServiceUnavailable, "Database not configured", nil)
	}

	f := excelize.NewFile()
	sheet, err := sheetgrid.New(f, "Orders")
	if err != nil {
		return ResponseError(c, http.StatusInternalServerError, "Failed to create worksheet", err)
	}
	ser := sheetser.New(sheet, sheetser.WithLogger(logger.Logger()))
	if err := ser.RegisterHeaders(0, 0, Order{}); err != nil {
		return ResponseError(c, http.StatusInternalServerError, "Failed to register layout", err)
	}

	src := source.NewSQLSource(ctx, h.DB,
		"SELECT id, customer, total FROM orders ORDER BY id",
		func(rows *sql.Rows) (interface{}, error) {
			var o Order
			if err := rows.Scan(&o.ID, &o.Customer, &o.Total); err != nil {
				return nil, err
			}
			return o, nil
		})
	defer src.Close()

	count, err := source.Export(ser, src)
	if err != nil {
		logger.ErrorLog(ctx, "Order export failed after %d rows: %v", count, err)
		return ResponseError(c, http.StatusInternalServerError, "Failed to export orders", err)
	}
	logger.InfoLog(ctx, "Exported %d orders", count)

	return writeWorkbook(c, f, "orders.xlsx")
}

// ExportSearchHandler dumps the documents of an Elasticsearch index.
// The index name comes from the :index route parameter.
func (h *ExportHandler) ExportSearchHandler(c echo.Context) error {
	ctx := c.Request().Context()
	if h.ES == nil {
		return ResponseError(c, http.StatusServiceUnavailable, "Elasticsearch not configured", nil)
	}
	index := c.Param("index")
	if index == "" {
		return ResponseError(c, http.StatusBadRequest, "Missing index name", nil)
	}

	f := excelize.NewFile()
	sheet, err := sheetgrid.New(f, "Documents")
	if err != nil {
		return ResponseError(c, http.StatusInternalServerError, "Failed to create worksheet", err)
	}
	ser := sheetser.New(sheet, sheetser.WithLogger(logger.Logger()))
	if err := ser.RegisterHeaders(0, 0, Product{}); err != nil {
		return ResponseError(c, http.StatusInternalServerError, "Failed to register layout", err)
	}

	src := source.NewElasticSource(ctx, h.ES, index, elastic.NewMatchAllQuery(), Product{})
	defer src.Close()

	count, err := source.Export(ser, src)
	if err != nil {
		logger.ErrorLog(ctx, "Search export failed after %d documents: %v", count, err)
		return ResponseError(c, http.StatusInternalServerError, "Failed to export documents", err)
	}
	logger.InfoLog(ctx, "Exported %d documents from index %s", count, index)

	return writeWorkbook(c, f, fmt.Sprintf("%s.xlsx", index))
}

// ExportEntitiesHandler dumps the product entities stored in Cloud
// Datastore.
func (h *ExportHandler) ExportEntitiesHandler(c echo.Context) error {
	ctx := c.Request().Context()
	if h.DS == nil {
		return ResponseError(c, http.StatusServiceUnavailable, "Datastore not configured", nil)
	}

	f := excelize.NewFile()
	sheet, err := sheetgrid.New(f, "Entities")
	if err != nil {
		return ResponseError(c, http.StatusInternalServerError, "Failed to create worksheet", err)
	}
	ser := sheetser.New(sheet, sheetser.WithLogger(logger.Logger()))
	if err := ser.RegisterHeaders(0, 0, Product{}); err != nil {
		return ResponseError(c, http.StatusInternalServerError, "Failed to register layout", err)
	}

	src := source.NewDatastoreSource(ctx, h.DS, datastore.NewQuery("Product"), Product{})
	count, err := source.Export(ser, src)
	if err != nil {
		return ResponseError(c, http.StatusInternalServerError, "Failed to export entities", err)
	}
	logger.InfoLog(ctx, "Exported %d entities", count)

	return writeWorkbook(c, f, "entities.xlsx")
}

func writeWorkbook(c echo.Context, f *excelize.File, filename string) error {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return ResponseError(c, http.StatusInternalServerError, "Failed to generate workbook", err)
	}

	c.Response().Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Response().Header().Set("Content-Length", strconv.Itoa(buf.Len()))

	_, err := c.Response().Write(buf.Bytes())
	return err
}

func sampleProducts() []interface{} {
	stock := func(n int) *int { return &n }
	return []interface{}{
		Product{Name: "Laptop Stand", Price: 49.99, Category: "Office", Available: true, Stock: stock(120), AddedAt: time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)},
		Product{Name: "USB-C Hub", Price: 34.5, Category: "Electronics", Available: true, Stock: stock(64), AddedAt: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)},
		Product{Name: "Desk Mat", Price: 19.0, Category: "Office", Available: false, AddedAt: time.Date(2024, 1, 28, 0, 0, 0, 0, time.UTC)},
		Product{Name: "Wireless Mouse", Price: 24.99, Category: "Electronics", Available: true, Stock: stock(310), AddedAt: time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC)},
	}
}
