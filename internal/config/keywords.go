package config

// Built-in keyword sets for a Vietnamese storefront. Deployments override
// them via the keywords section of the config file.

// DefaultTrendingKeywords returns the curated promoted terms.
func DefaultTrendingKeywords() []string {
	return []string{
		"iPhone 15 Pro Max",
		"Samsung Galaxy S24",
		"Laptop gaming",
		"Tai nghe bluetooth",
		"Đồng hồ thông minh",
		"Máy lọc không khí",
		"Robot hút bụi",
		"Điện thoại giá rẻ",
	}
}

// DefaultPopularKeywords returns the general domain vocabulary.
func DefaultPopularKeywords() []string {
	return []string{
		"điện thoại",
		"laptop",
		"tai nghe",
		"đồng hồ",
		"tivi",
		"tủ lạnh",
		"máy giặt",
		"điều hòa",
		"loa bluetooth",
		"bàn phím",
		"chuột gaming",
		"màn hình",
		"máy ảnh",
		"phụ kiện",
		"sạc dự phòng",
		"ốp lưng",
		"giá rẻ",
		"chính hãng",
	}
}

// DefaultFallbackSuggestions returns the static list served when every
// live source is unreachable.
func DefaultFallbackSuggestions() []string {
	return []string{
		"iPhone 15",
		"iPhone 14 Pro",
		"Samsung Galaxy S24 Ultra",
		"Laptop Dell XPS",
		"Laptop gaming Asus",
		"Tai nghe AirPods",
		"Đồng hồ Apple Watch",
		"Tivi Samsung 55 inch",
		"Máy giặt LG",
		"Tủ lạnh Samsung Inverter",
	}
}
