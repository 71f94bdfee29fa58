package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// LegalHandler serves the pages linked from the paywall and settings screens.
type LegalHandler struct {
	appName string
	contact string
}

func NewLegalHandler(appName, contact string) *LegalHandler {
	return &LegalHandler{appName: appName, contact: contact}
}

func (h *LegalHandler) PrivacyPolicy(c *fiber.Ctx) error {
	return h.page(c, "Privacy Policy", `
<h2>What We Store</h2>
<p>`+h.appName+` does not ask for an account. Your device receives an anonymous identifier, and your scan results, goals and settings are stored against it.</p>
<h2>Photos</h2>
<p>Photos you capture are sent to our image analysis provider to produce your scores. We keep your most recent photos so you can view them in the app.</p>
<h2>Purchases</h2>
<p>Subscriptions are processed by the App Store and RevenueCat. We only receive the plan and its expiry.</p>
<h2>Deleting Your Data</h2>
<p>Resetting the app from settings erases every scan, photo and answer stored for your device.</p>`)
}

func (h *LegalHandler) TermsOfService(c *fiber.Ctx) error {
	return h.page(c, "Terms of Service", `
<h2>Acceptance</h2>
<p>By using `+h.appName+`, you agree to these terms.</p>
<h2>Not Medical Advice</h2>
<p>Scores and protocols are generated automatically and are for information only. Talk to a qualified professional before starting any supplement or peptide.</p>
<h2>Subscriptions</h2>
<p>Premium features require an active subscription managed through the App Store. Subscriptions auto-renew unless cancelled 24 hours before the end of the current period.</p>`)
}

func (h *LegalHandler) page(c *fiber.Ctx, title, body string) error {
	return c.Type("html").SendString(`<!DOCTYPE html>
<html><head><title>` + title + ` - ` + h.appName + `</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>body{font-family:-apple-system,BlinkMacSystemFont,sans-serif;max-width:800px;margin:0 auto;padding:20px;color:#333}h1{color:#1a1a1a}h2{color:#444;margin-top:30px}</style>
</head><body>
<h1>` + title + `</h1>` + body + `
<h2>Contact</h2>
<p>For questions, contact us at ` + h.contact + `</p>
</body></html>`)
}
