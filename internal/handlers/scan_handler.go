package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/media"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/profile"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/services"
)

const maxUploadBytes = 10 << 20

type ScanHandler struct {
	scanService *services.ScanService
	profiles    *profile.Manager
	images      media.Store
}

func NewScanHandler(scanService *services.ScanService, profiles *profile.Manager, images media.Store) *ScanHandler {
	return &ScanHandler{scanService: scanService, profiles: profiles, images: images}
}

func (h *ScanHandler) Face(c *fiber.Ctx) error {
	id, ok, err := device(c)
	if !ok {
		return err
	}

	front, side, err := readImages(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	scan, err := h.scanService.ScanFace(c.UserContext(), id, front, side)
	if err != nil {
		return scanError(c, err)
	}
	r := scan.Results
	locked, results := scoresView(premium(c, h.profiles.For(id)), r, r.Overall, r.Potential)
	return c.Status(fiber.StatusCreated).JSON(dto.ScanResponse{Locked: locked, Results: results, Plan: scan.Plan})
}

func (h *ScanHandler) Body(c *fiber.Ctx) error {
	id, ok, err := device(c)
	if !ok {
		return err
	}

	img, _, err := readImages(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	scan, err := h.scanService.ScanBody(c.UserContext(), id, img)
	if err != nil {
		return scanError(c, err)
	}
	r := scan.Results
	locked, results := scoresView(premium(c, h.profiles.For(id)), r, r.Overall, r.Potential)
	return c.Status(fiber.StatusCreated).JSON(dto.ScanResponse{Locked: locked, Results: results, Plan: scan.Plan})
}

// Images returns displayable links for the last captured photos of a variant.
func (h *ScanHandler) Images(c *fiber.Ctx) error {
	id, ok, err := device(c)
	if !ok {
		return err
	}

	store := h.profiles.For(id)
	var refs *profile.Images
	switch c.Params("variant") {
	case "face":
		refs = store.GetFaceImages(c.UserContext())
	case "body":
		refs = store.GetBodyImages(c.UserContext())
	default:
		return fail(c, fiber.StatusNotFound, "Unknown scan type")
	}
	if refs == nil {
		return fail(c, fiber.StatusNotFound, "No photos captured yet")
	}

	out := profile.Images{}
	if out.Front, err = h.images.Link(c.UserContext(), refs.Front); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to load photos")
	}
	if refs.Side != "" {
		if out.Side, err = h.images.Link(c.UserContext(), refs.Side); err != nil {
			return fail(c, fiber.StatusInternalServerError, "Failed to load photos")
		}
	}
	return c.JSON(out)
}

func scanError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrAnalysisFailed) {
		return fail(c, fiber.StatusInternalServerError, "Analysis failed, please try again")
	}
	return fail(c, fiber.StatusInternalServerError, "Internal server error")
}

// readImages accepts a multipart upload ("image", optional "side_image") or a
// JSON body of base64 strings.
func readImages(c *fiber.Ctx) (media.Image, *media.Image, error) {
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		fh, err := c.FormFile("image")
		if err != nil {
			return media.Image{}, nil, errors.New("image is required")
		}
		front, err := readUpload(fh)
		if err != nil {
			return media.Image{}, nil, err
		}
		if sfh, err := c.FormFile("side_image"); err == nil {
			side, err := readUpload(sfh)
			if err != nil {
				return media.Image{}, nil, err
			}
			return front, &side, nil
		}
		return front, nil, nil
	}

	var req dto.ScanRequest
	if err := c.BodyParser(&req); err != nil {
		return media.Image{}, nil, errors.New("invalid request body")
	}
	front, err := media.Decode(req.Image)
	if err != nil || len(front.Data) == 0 {
		return media.Image{}, nil, media.ErrInvalidImage
	}
	if req.SideImage == "" {
		return front, nil, nil
	}
	side, err := media.Decode(req.SideImage)
	if err != nil || len(side.Data) == 0 {
		return media.Image{}, nil, media.ErrInvalidImage
	}
	return front, &side, nil
}

func readUpload(fh *multipart.FileHeader) (media.Image, error) {
	if fh.Size > maxUploadBytes {
		return media.Image{}, errors.New("image too large")
	}
	f, err := fh.Open()
	if err != nil {
		return media.Image{}, media.ErrInvalidImage
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil || len(data) == 0 {
		return media.Image{}, media.ErrInvalidImage
	}
	return media.FromBytes(data, fh.Header.Get(fiber.HeaderContentType)), nil
}
