package backend

import "encoding/json"

// ProductSummary is a catalog entry as returned by the product list endpoint.
type ProductSummary struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Code             string  `json:"code"`
	CategoryName     string  `json:"categoryName"`
	BrandName        string  `json:"brandName"`
	Slug             string  `json:"slug"`
	ThumbnailURL     string  `json:"thumbnailUrl"`
	Price            float64 `json:"price"`
	ShortDescription string  `json:"shortDescription,omitempty"`
	ServiceType      string  `json:"serviceType,omitempty"`
	Duration         string  `json:"duration,omitempty"`
}

// ProductDetail extends ProductSummary with the fields served by the detail endpoint.
type ProductDetail struct {
	ProductSummary
	LongDescription string            `json:"longDescription"`
	MetaTitle       string            `json:"metaTitle"`
	MetaDescription string            `json:"metaDescription"`
	Media           []Media           `json:"media"`
	Attributes      []Attribute       `json:"attributes"`
	Features        []string          `json:"features"`
	Variants        []json.RawMessage `json:"variants"`
	Prices          []json.RawMessage `json:"prices"`
	ServiceDetails  *ServiceDetails   `json:"serviceDetails,omitempty"`
}

// Media references an image or video attached to a product.
type Media struct {
	URL      string `json:"url"`
	Type     string `json:"type"`
	FileName string `json:"fileName"`
}

// Attribute is a loosely typed name/value pair. Some values hold JSON documents.
type Attribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ServiceDetails carries service specific metadata such as delivery mode.
type ServiceDetails struct {
	Duration string `json:"duration"`
	Type     string `json:"type"`
}

// GalleryItem is a photo or video shown in the institute gallery.
type GalleryItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	MediaURL    string `json:"mediaUrl"`
	MediaType   string `json:"mediaType"`
	IsFeatured  bool   `json:"isFeatured"`
}

// EnquiryRequest is the lead payload accepted by the enquiries endpoint.
type EnquiryRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	CourseID   string `json:"courseId,omitempty"`
	CourseName string `json:"courseName,omitempty"`
	Message    string `json:"message,omitempty"`
}

func (d *ProductDetail) normalize() {
	if d.Media == nil {
		d.Media = []Media{}
	}
	if d.Attributes == nil {
		d.Attributes = []Attribute{}
	}
	if d.Features == nil {
		d.Features = []string{}
	}
	if d.Variants == nil {
		d.Variants = []json.RawMessage{}
	}
	if d.Prices == nil {
		d.Prices = []json.RawMessage{}
	}
}
