// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package catalog

import (
	"net/http"

	"github.com/olegiv/cmsadmin/internal/apiclient"
	"github.com/olegiv/cmsadmin/internal/form"
	"github.com/olegiv/cmsadmin/internal/validate"
)

// Shared fields.
var (
	nameField = form.Field{Name: "name", Kind: form.KindText, Label: "Name", Required: true,
		Rules: []validate.Rule{validate.MinLen(2), validate.MaxLen(120)}}
	titleField = form.Field{Name: "title", Kind: form.KindText, Label: "Title", Required: true,
		Rules: []validate.Rule{validate.MinLen(2), validate.MaxLen(160)}}
	descriptionField = form.Field{Name: "description", Kind: form.KindTextarea, Label: "Description",
		Rules: []validate.Rule{validate.MaxLen(2000)}}
	statusField = form.Field{Name: "status", Kind: form.KindSelect, Label: "Status",
		Options: []string{"active", "inactive"}, Default: "active"}
	emailField = form.Field{Name: "email", Kind: form.KindText, Label: "Email", Required: true,
		Rules: []validate.Rule{validate.Email()}}
	phoneField = form.Field{Name: "phone", Kind: form.KindText, Label: "Phone",
		Rules: []validate.Rule{validate.Phone()}}
)

func slugOf(source string) form.Field {
	return form.Field{Name: "slug", Kind: form.KindSlug, Label: "Slug", SlugFrom: source}
}

func image(name, path, label string, required bool) form.Field {
	return form.Field{Name: name, Path: path, Kind: form.KindFile, Label: label, Required: required}
}

func gallery(name, path, label string) form.Field {
	return form.Field{Name: name, Path: path, Kind: form.KindFiles, Label: label,
		Rules: []validate.Rule{validate.MaxItems(12)}}
}

var (
	idColumn     = Column{Header: "ID", Path: "_id", Width: 24}
	statusColumn = Column{Header: "Status", Path: "status"}
)

// definitions are the managed resources. Routes keep the backend's own
// inconsistencies: some groups take ids in the body, some use GET for
// deletes, some name their id parameter differently.
func definitions() []Definition {
	return []Definition{
		{
			Name: "brands", Label: "Brand", Plural: "Brands",
			Endpoints: apiclient.Conventional("/brand", "brands", "brand"),
			Columns: []Column{idColumn, {Header: "Name", Path: "name", Width: 32},
				{Header: "Country", Path: "country"}, {Header: "Logo", Path: "photo", Width: 40}},
			Schema: form.Schema{
				nameField,
				{Name: "country", Kind: form.KindText, Label: "Country", Required: true},
				descriptionField,
				image("photo", "", "Logo", true),
			},
		},
		{
			Name: "categories", Label: "Category", Plural: "Categories",
			Endpoints: apiclient.Conventional("/category", "categories", "category").WithBodyIDs(),
			Columns:   []Column{idColumn, {Header: "Name", Path: "name", Width: 32}, {Header: "Slug", Path: "slug"}, statusColumn},
			Schema: form.Schema{
				nameField,
				slugOf("name"),
				descriptionField,
				image("image", "", "Image", false),
				statusField,
			},
		},
		{
			Name: "sub-categories", Label: "Sub-category", Plural: "Sub-categories",
			Endpoints: subCategoryEndpoints(),
			Columns: []Column{idColumn, {Header: "Name", Path: "name", Width: 32},
				{Header: "Category", Path: "categoryId"}, statusColumn},
			Schema: form.Schema{
				nameField,
				slugOf("name"),
				{Name: "category", Path: "categoryId", Kind: form.KindSelect, Label: "Category", Required: true},
				image("image", "", "Image", false),
				statusField,
			},
		},
		{
			Name: "developers", Label: "Developer", Plural: "Developers",
			Endpoints: developerEndpoints(),
			Columns: []Column{idColumn, {Header: "Name", Path: "name", Width: 32},
				{Header: "Email", Path: "contact.email"}, {Header: "Website", Path: "website", Width: 40}},
			Schema: form.Schema{
				nameField,
				{Name: "email", Path: "contact.email", Kind: form.KindText, Label: "Email", Required: true,
					Rules: []validate.Rule{validate.Email()}},
				{Name: "phone", Path: "contact.phone", Kind: form.KindText, Label: "Phone",
					Rules: []validate.Rule{validate.Phone()}},
				{Name: "website", Kind: form.KindText, Label: "Website", Rules: []validate.Rule{validate.URL()}},
				descriptionField,
				image("logo", "", "Logo", false),
			},
		},
		{
			Name: "projects", Label: "Project", Plural: "Projects",
			Endpoints: apiclient.Conventional("/project", "projects", "project").WithBodyIDs(),
			Columns: []Column{idColumn, {Header: "Name", Path: "name", Width: 32},
				{Header: "Developer", Path: "developerId"}, {Header: "City", Path: "location.city"}, statusColumn},
			Schema: form.Schema{
				nameField,
				slugOf("name"),
				{Name: "developer", Path: "developerId", Kind: form.KindSelect, Label: "Developer", Required: true},
				{Name: "city", Path: "location.city", Kind: form.KindText, Label: "City", Required: true},
				{Name: "country", Path: "location.country", Kind: form.KindText, Label: "Country", Default: "UAE"},
				{Name: "handover", Kind: form.KindText, Label: "Handover"},
				descriptionField,
				image("cover", "coverImage", "Cover image", true),
				gallery("gallery", "images", "Gallery"),
				{Name: "status", Kind: form.KindSelect, Label: "Status",
					Options: []string{"upcoming", "under-construction", "completed"}, Default: "upcoming"},
			},
		},
		{
			Name: "properties", Label: "Property", Plural: "Properties",
			Endpoints: propertyEndpoints(),
			Columns: []Column{idColumn, {Header: "Title", Path: "title", Width: 32},
				{Header: "Type", Path: "propertyType"}, {Header: "Price", Path: "price.amount"},
				{Header: "City", Path: "location.city"}, statusColumn},
			Schema: form.Schema{
				titleField,
				slugOf("title"),
				{Name: "propertyType", Kind: form.KindSelect, Label: "Type", Required: true,
					Options: []string{"apartment", "villa", "townhouse", "penthouse", "office", "plot"}},
				{Name: "purpose", Kind: form.KindSelect, Label: "Purpose", Options: []string{"sale", "rent"}, Default: "sale"},
				{Name: "price", Path: "price.amount", Kind: form.KindNumber, Label: "Price", Required: true,
					Rules: []validate.Rule{validate.Min(0)}},
				{Name: "currency", Path: "price.currency", Kind: form.KindSelect, Label: "Currency",
					Options: []string{"AED", "USD", "EUR"}, Default: "AED"},
				{Name: "bedrooms", Kind: form.KindNumber, Label: "Bedrooms", Rules: []validate.Rule{validate.Min(0), validate.Max(20)}},
				{Name: "bathrooms", Kind: form.KindNumber, Label: "Bathrooms", Rules: []validate.Rule{validate.Min(0), validate.Max(20)}},
				{Name: "area", Kind: form.KindNumber, Label: "Area (sq ft)", Rules: []validate.Rule{validate.Min(0)}},
				{Name: "project", Path: "projectId", Kind: form.KindSelect, Label: "Project"},
				{Name: "amenities", Kind: form.KindList, Label: "Amenities"},
				{Name: "city", Path: "location.city", Kind: form.KindText, Label: "City", Required: true},
				{Name: "address", Path: "location.address", Kind: form.KindText, Label: "Address"},
				{Name: "featured", Kind: form.KindBool, Label: "Featured"},
				{Name: "description", Kind: form.KindRichText, Label: "Description"},
				image("cover", "coverImage", "Cover image", true),
				gallery("gallery", "images", "Gallery"),
				{Name: "status", Kind: form.KindSelect, Label: "Status",
					Options: []string{"available", "reserved", "sold"}, Default: "available"},
			},
		},
		{
			Name: "amenities", Label: "Amenity", Plural: "Amenities",
			Endpoints: apiclient.Conventional("/amenity", "amenities", "amenity"),
			Columns:   []Column{idColumn, {Header: "Name", Path: "name", Width: 32}, {Header: "Icon", Path: "icon", Width: 40}},
			Schema: form.Schema{
				nameField,
				image("icon", "", "Icon", false),
			},
		},
		{
			Name: "products", Label: "Product", Plural: "Products",
			Endpoints: productEndpoints(),
			Columns: []Column{idColumn, {Header: "Name", Path: "name", Width: 32}, {Header: "SKU", Path: "sku"},
				{Header: "Price", Path: "price"}, {Header: "Stock", Path: "stock"}, {Header: "Brand", Path: "brandId"}},
			Schema: form.Schema{
				nameField,
				slugOf("name"),
				{Name: "sku", Kind: form.KindText, Label: "SKU", Required: true, Rules: []validate.Rule{validate.MaxLen(40)}},
				{Name: "price", Kind: form.KindNumber, Label: "Price", Required: true, Rules: []validate.Rule{validate.Min(0)}},
				{Name: "salePrice", Kind: form.KindNumber, Label: "Sale price", Rules: []validate.Rule{validate.Min(0)}},
				{Name: "stock", Kind: form.KindNumber, Label: "Stock", Rules: []validate.Rule{validate.Min(0)}},
				{Name: "brand", Path: "brandId", Kind: form.KindSelect, Label: "Brand"},
				{Name: "category", Path: "categoryId", Kind: form.KindSelect, Label: "Category", Required: true},
				{Name: "subCategory", Path: "subCategoryId", Kind: form.KindSelect, Label: "Sub-category"},
				{Name: "tags", Kind: form.KindList, Label: "Tags", Rules: []validate.Rule{validate.MaxItems(20)}},
				{Name: "description", Kind: form.KindRichText, Label: "Description"},
				image("thumbnail", "", "Thumbnail", true),
				gallery("images", "", "Images"),
				statusField,
			},
		},
		{
			Name: "blogs", Label: "Blog", Plural: "Blogs",
			Endpoints: apiclient.Conventional("/blog", "blogs", "blog"),
			Columns: []Column{idColumn, {Header: "Title", Path: "title", Width: 40},
				{Header: "Author", Path: "author"}, {Header: "Published", Path: "published"}},
			Schema: form.Schema{
				titleField,
				slugOf("title"),
				{Name: "author", Kind: form.KindText, Label: "Author", Required: true},
				{Name: "excerpt", Kind: form.KindTextarea, Label: "Excerpt", Rules: []validate.Rule{validate.MaxLen(300)}},
				{Name: "content", Kind: form.KindMarkdown, Label: "Content", Required: true, HTMLPath: "contentHtml"},
				{Name: "tags", Kind: form.KindList, Label: "Tags"},
				{Name: "published", Kind: form.KindBool, Label: "Published"},
				image("cover", "coverImage", "Cover image", false),
			},
		},
		{
			Name: "vendors", Label: "Vendor", Plural: "Vendors",
			Endpoints: vendorEndpoints(),
			Columns: []Column{idColumn, {Header: "Company", Path: "companyName", Width: 32},
				{Header: "Email", Path: "email"}, {Header: "Phone", Path: "phone"}, statusColumn},
			Schema: form.Schema{
				{Name: "companyName", Kind: form.KindText, Label: "Company name", Required: true,
					Rules: []validate.Rule{validate.MinLen(2)}},
				{Name: "contactName", Kind: form.KindText, Label: "Contact name", Required: true},
				emailField,
				phoneField,
				{Name: "tradeLicense", Kind: form.KindText, Label: "Trade license no."},
				{Name: "commission", Kind: form.KindNumber, Label: "Commission %",
					Rules: []validate.Rule{validate.Min(0), validate.Max(100)}},
				image("logo", "", "Logo", false),
				{Name: "documents", Kind: form.KindFiles, Label: "Documents"},
				{Name: "status", Kind: form.KindSelect, Label: "Status",
					Options: []string{"pending", "approved", "suspended"}, Default: "pending"},
			},
		},
		{
			Name: "freelancers", Label: "Freelancer", Plural: "Freelancers",
			Endpoints: apiclient.Conventional("/freelancer", "freelancers", "freelancer"),
			Columns: []Column{idColumn, {Header: "Name", Path: "fullName", Width: 32},
				{Header: "Email", Path: "email"}, {Header: "Agency", Path: "agency"}, statusColumn},
			Schema: form.Schema{
				{Name: "fullName", Kind: form.KindText, Label: "Full name", Required: true},
				emailField,
				phoneField,
				{Name: "agency", Kind: form.KindText, Label: "Agency"},
				{Name: "reraNumber", Kind: form.KindText, Label: "RERA number"},
				{Name: "languages", Kind: form.KindList, Label: "Languages"},
				image("avatar", "", "Photo", false),
				statusField,
			},
		},
		{
			Name: "customers", Label: "Customer", Plural: "Customers",
			Endpoints: customerEndpoints(),
			Columns: []Column{idColumn, {Header: "Name", Path: "fullName", Width: 32},
				{Header: "Email", Path: "email"}, {Header: "Phone", Path: "phone"}},
			Schema: form.Schema{
				{Name: "fullName", Kind: form.KindText, Label: "Full name", Required: true},
				emailField,
				phoneField,
				{Name: "city", Path: "address.city", Kind: form.KindText, Label: "City"},
				{Name: "country", Path: "address.country", Kind: form.KindText, Label: "Country"},
				{Name: "blocked", Kind: form.KindBool, Label: "Blocked"},
			},
		},
		{
			Name: "banners", Label: "Banner", Plural: "Banners",
			Endpoints: apiclient.Conventional("/banner", "banners", "banner").WithBodyIDs(),
			Columns: []Column{idColumn, {Header: "Title", Path: "title", Width: 32},
				{Header: "Position", Path: "position"}, {Header: "Link", Path: "link", Width: 40}},
			Schema: form.Schema{
				titleField,
				{Name: "link", Kind: form.KindText, Label: "Link", Rules: []validate.Rule{validate.URL()}},
				{Name: "position", Kind: form.KindSelect, Label: "Position",
					Options: []string{"home-hero", "home-middle", "sidebar", "footer"}, Default: "home-hero"},
				{Name: "order", Kind: form.KindNumber, Label: "Order", Rules: []validate.Rule{validate.Min(0)}},
				image("image", "", "Image", true),
				statusField,
			},
		},
		{
			Name: "coupons", Label: "Coupon", Plural: "Coupons",
			Endpoints: apiclient.Conventional("/coupon", "coupons", "coupon"),
			Columns: []Column{idColumn, {Header: "Code", Path: "code"}, {Header: "Type", Path: "discountType"},
				{Header: "Value", Path: "value"}, {Header: "Expires", Path: "expiresAt"}},
			Schema: form.Schema{
				{Name: "code", Kind: form.KindText, Label: "Code", Required: true,
					Rules: []validate.Rule{validate.MinLen(3), validate.MaxLen(32)}},
				{Name: "discountType", Kind: form.KindSelect, Label: "Type", Required: true,
					Options: []string{"percent", "fixed"}, Default: "percent"},
				{Name: "value", Kind: form.KindNumber, Label: "Value", Required: true, Rules: []validate.Rule{validate.Min(0)}},
				{Name: "minOrder", Kind: form.KindNumber, Label: "Minimum order", Rules: []validate.Rule{validate.Min(0)}},
				{Name: "usageLimit", Kind: form.KindNumber, Label: "Usage limit", Rules: []validate.Rule{validate.Min(0)}},
				{Name: "expiresAt", Kind: form.KindText, Label: "Expires (YYYY-MM-DD)"},
				statusField,
			},
		},
		{
			Name: "testimonials", Label: "Testimonial", Plural: "Testimonials",
			Endpoints: apiclient.Conventional("/testimonial", "testimonials", "testimonial"),
			Columns: []Column{idColumn, {Header: "Author", Path: "author"}, {Header: "Rating", Path: "rating"},
				{Header: "Message", Path: "message", Width: 48}},
			Schema: form.Schema{
				{Name: "author", Kind: form.KindText, Label: "Author", Required: true},
				{Name: "designation", Kind: form.KindText, Label: "Designation"},
				{Name: "message", Kind: form.KindTextarea, Label: "Message", Required: true,
					Rules: []validate.Rule{validate.MinLen(10), validate.MaxLen(1000)}},
				{Name: "rating", Kind: form.KindNumber, Label: "Rating", Default: float64(5),
					Rules: []validate.Rule{validate.Min(1), validate.Max(5)}},
				image("avatar", "", "Photo", false),
			},
		},
	}
}

func subCategoryEndpoints() apiclient.Endpoints {
	ep := apiclient.Conventional("/sub-category", "sub-categories", "sub-category")
	ep.List.Method = http.MethodPost
	return ep
}

func developerEndpoints() apiclient.Endpoints {
	ep := apiclient.Conventional("/developer", "developers", "developer")
	ep.Delete.Method = http.MethodGet
	return ep
}

func propertyEndpoints() apiclient.Endpoints {
	ep := apiclient.Conventional("/property", "properties", "property")
	ep.Get.Method = http.MethodPost
	ep.Get.IDIn = apiclient.IDInBody
	ep.Update.IDIn = apiclient.IDInBody
	ep.Update.IDParam = "propertyId"
	ep.Get.IDParam = "propertyId"
	return ep
}

func productEndpoints() apiclient.Endpoints {
	ep := apiclient.Conventional("/product", "products", "product")
	ep.Update.IDIn = apiclient.IDInBody
	ep.Update.IDParam = "productId"
	ep.Delete.IDIn = apiclient.IDInBody
	ep.Delete.IDParam = "productId"
	return ep
}

func vendorEndpoints() apiclient.Endpoints {
	ep := apiclient.Conventional("/vendor", "vendors", "vendor")
	ep.Update.IDIn = apiclient.IDInBody
	ep.Update.IDParam = "vendorId"
	return ep
}

func customerEndpoints() apiclient.Endpoints {
	ep := apiclient.Conventional("/customer", "customers", "customer")
	ep.Get = apiclient.Route{Method: http.MethodGet, Path: "/customer/{id}", IDIn: apiclient.IDInPath}
	ep.Delete = apiclient.Route{Method: http.MethodDelete, Path: "/customer/{id}", IDIn: apiclient.IDInPath}
	return ep
}
