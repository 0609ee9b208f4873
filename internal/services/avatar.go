package services

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image/color"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/maturamate/maturamate-backend/internal/data/repos"
	types "github.com/maturamate/maturamate-backend/internal/domain"
	"github.com/maturamate/maturamate-backend/internal/platform/dbctx"
	"github.com/maturamate/maturamate-backend/internal/platform/gcp"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
)

const avatarSize = 512

type AvatarService interface {
	// CreateAndUploadUserAvatar renders the initials avatar, uploads it and
	// points the user row at the new object.
	CreateAndUploadUserAvatar(ctx context.Context, user *types.User) error
	GenerateUserAvatar(user *types.User) (bytes.Buffer, error)
}

type avatarService struct {
	log           *logger.Logger
	userRepo      repos.UserRepo
	bucketService gcp.BucketService
	fontFace      font.Face
	now           func() time.Time
}

var avatarPalette = []color.NRGBA{
	{R: 0x1E, G: 0x88, B: 0xE5, A: 0xFF},
	{R: 0x43, G: 0xA0, B: 0x47, A: 0xFF},
	{R: 0xF4, G: 0x51, B: 0x1E, A: 0xFF},
	{R: 0x8E, G: 0x24, B: 0xAA, A: 0xFF},
	{R: 0x00, G: 0x89, B: 0x7B, A: 0xFF},
	{R: 0xC0, G: 0xCA, B: 0x33, A: 0xFF},
	{R: 0x6D, G: 0x4C, B: 0x41, A: 0xFF},
	{R: 0x39, G: 0x49, B: 0xAB, A: 0xFF},
}

func NewAvatarService(log *logger.Logger, userRepo repos.UserRepo, bucketService gcp.BucketService) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")
	parsed, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse avatar font: %w", err)
	}
	face := truetype.NewFace(parsed, &truetype.Options{
		Size:    206,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	return &avatarService{
		log:           serviceLog,
		userRepo:      userRepo,
		bucketService: bucketService,
		fontFace:      face,
		now:           time.Now,
	}, nil
}

func (as *avatarService) CreateAndUploadUserAvatar(ctx context.Context, user *types.User) error {
	if user == nil || user.ID == uuid.Nil {
		return fmt.Errorf("user required")
	}
	if as.bucketService == nil {
		return fmt.Errorf("avatar storage not configured")
	}
	buf, err := as.GenerateUserAvatar(user)
	if err != nil {
		return err
	}

	oldKey := strings.TrimSpace(user.AvatarBucketKey)
	// Versioned so caches never serve a stale image under the same key.
	newKey := fmt.Sprintf("user_avatar/%s/%d.png", user.ID.String(), as.now().UnixNano())

	dbc := dbctx.Of(ctx)
	if err := as.bucketService.UploadFile(dbc, gcp.BucketCategoryAvatar, newKey, bytes.NewReader(buf.Bytes())); err != nil {
		return fmt.Errorf("upload user avatar: %w", err)
	}
	if err := as.userRepo.UpdateAvatarFields(dbc, user.ID, newKey, user.AvatarColor); err != nil {
		return fmt.Errorf("store avatar key: %w", err)
	}
	user.AvatarBucketKey = newKey

	if oldKey != "" && oldKey != newKey {
		if err := as.bucketService.DeleteFile(dbc, gcp.BucketCategoryAvatar, oldKey); err != nil {
			as.log.Warn("failed to delete old avatar (ignored)", "oldKey", oldKey, "error", err)
		}
	}
	return nil
}

func (as *avatarService) GenerateUserAvatar(user *types.User) (bytes.Buffer, error) {
	var buf bytes.Buffer
	if user == nil {
		return buf, fmt.Errorf("user required")
	}
	if normalizeHex(user.AvatarColor) == "" {
		user.AvatarColor = nrgbaToHex(paletteColorFor(user.ID))
	}
	base, ok := parseHexColor(user.AvatarColor)
	if !ok {
		base = paletteColorFor(user.ID)
	}

	dc := gg.NewContext(avatarSize, avatarSize)
	dc.DrawCircle(avatarSize/2, avatarSize/2, avatarSize/2)
	dc.Clip()
	dc.SetColor(base)
	dc.DrawRectangle(0, 0, avatarSize, avatarSize)
	dc.Fill()

	dc.SetFontFace(as.fontFace)
	dc.SetColor(color.White)
	dc.DrawStringAnchored(computeInitials(user.FirstName, user.LastName), avatarSize/2, avatarSize/2, 0.5, 0.35)

	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("encode PNG: %w", err)
	}
	return buf, nil
}

// paletteColorFor is stable per user so regenerated avatars keep their color.
func paletteColorFor(id uuid.UUID) color.NRGBA {
	h := fnv.New32a()
	h.Write(id[:])
	return avatarPalette[int(h.Sum32()%uint32(len(avatarPalette)))]
}

func normalizeHex(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if _, ok := parseHexColor(s); !ok {
		return ""
	}
	return s
}

func parseHexColor(s string) (color.NRGBA, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.NRGBA{}, false
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.NRGBA{}, false
	}
	return color.NRGBA{R: r, G: g, B: b, A: 0xFF}, true
}

func nrgbaToHex(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func computeInitials(first, last string) string {
	return initial(first) + initial(last)
}

func initial(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r))
}
