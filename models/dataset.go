package models

// --- Star schema tables ---

const (
	TableOrders      = "dim_order"
	TableLineItems   = "fact_order_products"
	TableProducts    = "dim_product"
	TableAisles      = "dim_aisles"
	TableDepartments = "dim_department"
)

// DayNames maps order_dow (0 = Sunday) to calendar day names.
var DayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// DayName returns the calendar name for an order_dow value, or "" when it is
// out of range.
func DayName(dow int) string {
	if dow < 0 || dow >= len(DayNames) {
		return ""
	}
	return DayNames[dow]
}

// --- Customer segments ---

const (
	SegmentHighFrequency   = "High-frequency"
	SegmentMediumFrequency = "Medium-frequency"
	SegmentLowFrequency    = "Low-frequency"

	BasketSmall  = "small"
	BasketMedium = "medium"
	BasketLarge  = "large"
)

// --- Recency slice labels ---

const (
	SliceOverall      = "overall"
	SliceByDOWPrefix  = "by_dow:"
	SliceByHourPrefix = "by_hour:"
)
