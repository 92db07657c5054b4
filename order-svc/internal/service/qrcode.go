package service

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(orderID string) ([]byte, error)
}

// TrackingQRGenerator encodes the public tracking page of an order as a PNG.
type TrackingQRGenerator struct {
	BaseURL string
	Size    int
}

func NewTrackingQRGenerator(baseURL string) TrackingQRGenerator {
	return TrackingQRGenerator{BaseURL: strings.TrimRight(baseURL, "/"), Size: 256}
}

func (g TrackingQRGenerator) TrackingURL(orderID string) string {
	return fmt.Sprintf("%s/orders/%s", g.BaseURL, url.PathEscape(orderID))
}

func (g TrackingQRGenerator) Generate(orderID string) ([]byte, error) {
	return qrcode.Encode(g.TrackingURL(orderID), qrcode.Medium, g.Size)
}
