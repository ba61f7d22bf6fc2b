package models

// Product is a catalog record as stored in the document database.
//
// Price is deliberately untyped: catalog documents carry it either as a
// display string ("Rs. 1,299", "₹499") or as a bare number, and the
// pricing package is the only place that interprets it.
type Product struct {
	ID          string `bson:"_id,omitempty" json:"id"`
	Name        string `bson:"name" json:"name"`
	Price       any    `bson:"price" json:"price"`
	ImageURL    string `bson:"imageUrl,omitempty" json:"image_url,omitempty"`
	Category    string `bson:"category,omitempty" json:"category,omitempty"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	IsFeatured  bool   `bson:"isFeatured,omitempty" json:"is_featured,omitempty"`
}

// LineItem is one cart entry: a product snapshot plus the chosen variant.
// Its ID identifies the cart entry, not the product, so the same product
// added twice yields two distinct line items.
type LineItem struct {
	ID            string  `bson:"id" json:"id"`
	Product       Product `bson:"product" json:"product"`
	SelectedSize  string  `bson:"selectedSize" json:"selected_size"`
	SelectedColor string  `bson:"selectedColor" json:"selected_color"`
}
