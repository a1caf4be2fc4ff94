package service

import (
	"fmt"
	"net/url"

	"github.com/skip2/go-qrcode"

	"overcooked-catalog/catalog-svc/internal/domain"
)

type QRGenerator interface {
	Generate(menuName string) ([]byte, error)
}

// DefaultQRGenerator encodes a link to the public menu page as a PNG.
type DefaultQRGenerator struct {
	BaseURL string
	Size    int
}

func (g DefaultQRGenerator) Generate(menuName string) ([]byte, error) {
	size := g.Size
	if size <= 0 {
		size = 256
	}
	qrData := fmt.Sprintf("%s/menu.html?menu=%s", g.BaseURL, url.QueryEscape(menuName))
	return qrcode.Encode(qrData, qrcode.Medium, size)
}

// MenuQRCode renders the QR code of a registered menu.
func (m *Manager) MenuQRCode(menu *domain.Menu, gen QRGenerator) ([]byte, error) {
	if err := checkEntity("menu", "Menu", menu); err != nil {
		return nil, err
	}
	if gen == nil {
		return nil, &domain.TypeError{Param: "gen", Expected: "QRGenerator"}
	}
	m.mu.RLock()
	registered := m.menus.has(menu.Name())
	m.mu.RUnlock()
	if !registered {
		return nil, domain.NotExist(domain.KindMenu, menu.Name())
	}

	qr, err := gen.Generate(menu.Name())
	if err != nil {
		return nil, fmt.Errorf("generate qr code for menu %q: %w", menu.Name(), err)
	}
	return qr, nil
}
