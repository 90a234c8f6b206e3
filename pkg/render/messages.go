package render

// 表示文言（ベトナム語）
const (
	BrandName    = "AutoVision AI"
	BrandTagline = "Powered by Gemini 2.5 Flash"

	HeroTitle    = "Nhận diện xe bằng Gemini AI"
	HeroSubtitle = "Tải lên ảnh xe để biết hãng, mẫu, năm sản xuất và ước tính giá trị ngay lập tức."

	UploadTitle     = "Tải ảnh xe lên"
	UploadHint      = "Kéo thả hoặc nhấn để chọn ảnh (JPG, PNG)"
	UploadAnalyzing = "Đang phân tích..."
	UploadButton    = "Phân tích"

	ScanningText = "Đang quét dữ liệu xe..."

	ErrorHeading = "Đã xảy ra lỗi:"
	RetryLabel   = "Thử lại"
	ChangeImage  = "Chọn ảnh khác"

	NoVehicleTitle = "Không tìm thấy xe"
	NoVehicleBody  = "AI không thể nhận diện phương tiện trong hình ảnh này. Vui lòng thử lại với hình ảnh rõ nét hơn."

	LabelAccuracy       = "Độ chính xác AI"
	LabelOverview       = "Tổng quan"
	LabelFeatures       = "Tính năng nổi bật"
	LabelSpecs          = "Thông số & Giá trị"
	LabelEstimatedPrice = "Giá ước tính"
	LabelTopSpeed       = "Tốc độ tối đa"
	LabelAcceleration   = "Tăng tốc (0-100)"
	LabelConfidence     = "Độ tin cậy nhận diện"
	LabelConfidenceBar  = "Độ tin cậy"

	NotAvailable = "N/A"

	// FallbackError はエラー文言が空だった場合の表示です。
	FallbackError = "Có lỗi xảy ra khi phân tích ảnh."
)
