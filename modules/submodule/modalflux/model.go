package modalflux

// GenerateResponse - Modal /generate 응답
type GenerateResponse struct {
	ImageBase64    *string  `json:"image_base64"`
	GenerationTime *float64 `json:"generation_time,omitempty"`
}
