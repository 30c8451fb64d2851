package bot

import (
	"fmt"
	"strings"

	"github.com/techadmin009/resumegenie/internal/domain"
)

const (
	textHelp = `🧞 *ResumeGenie Help*

*Commands*
/newresume — start building a resume
/premium — premium features and pricing
/redeem <key> — activate a premium key
/privacy — how your data is handled
/cancel — abandon the current resume

*How it works*
Answer seven short questions and receive a polished PDF resume. ` +
		`Premium unlocks three extra templates and removes the watermark.`

	textPrivacy = `🔒 *Privacy Policy*

Your answers are kept *only* for the duration of the conversation. ` +
		`As soon as your PDF is delivered (or you send /cancel), every answer is deleted. ` +
		`We store no resume content. Premium status and key redemption audit records are ` +
		`kept to operate the premium tier.`

	textCancelled       = "❌ Resume creation cancelled. Your answers have been deleted.\n\nSend /newresume to start over."
	textNothingToCancel = "There is nothing to cancel right now. Send /newresume to start building a resume."

	textUnknown = "I didn't understand that. Send /help to see what I can do."

	textRedeemUsage = "Usage: `/redeem RG-XXXXXXXXXXXXXXXX-XXXXXXXX`\n\nPaste the key exactly as you received it."

	textRedeemBadKey   = "❌ That key is not valid. Check for typos and try again."
	textRedeemUnknown  = "❌ This key does not exist or has already been used."
	textRedeemExpired  = "❌ This key has expired and can no longer be redeemed."
	textRedeemInternal = "Something went wrong while redeeming your key. Please try again later."

	textDraftMissing = "Your resume answers are no longer available. Send /newresume to start again."

	textGenerating = "🛠 Generating your resume..."

	textUpgradeReminder = "✨ Like the result? Premium removes the watermark and unlocks " +
		"the Modern, Creative and Minimalist templates. Send /premium to learn more."

	textChooseTemplate = "🎨 *Choose your template*\n\nI've sent a preview of each layout above. " +
		"Pick the one you like best:"

	textGenericError = "😔 Something went wrong. Please try again."
)

var stepPrompts = []string{
	"📝 *Step 1 of 7 — Name*\n\nWhat is your full name?\n\n_Example: Jordan Smith_",
	"📇 *Step 2 of 7 — Contact*\n\nHow can employers reach you? Include email, phone and city.\n\n_Example: jordan@example.com | +1 555 0100 | Austin, TX_",
	"🎓 *Step 3 of 7 — Education*\n\nTell me about your education: degrees, schools and years.\n\n_Example: B.A. Economics, University of Texas, 2016-2020_",
	"💼 *Step 4 of 7 — Experience*\n\nDescribe your work experience: roles, companies and achievements.",
	"🛠 *Step 5 of 7 — Skills*\n\nList your key skills, separated by commas.\n\n_Example: SQL, project management, public speaking_",
	"✨ *Step 6 of 7 — Summary*\n\nWrite a short professional summary (2-3 sentences).",
}

func textWelcome(firstName string, premium bool, expiresAt string) string {
	var b strings.Builder
	name := firstName
	if name == "" {
		name = "there"
	}
	fmt.Fprintf(&b, "👋 Hi %s, I'm *ResumeGenie*!\n\n", name)
	b.WriteString("I build professional PDF resumes through a quick 7-question chat.\n\n")
	if premium {
		fmt.Fprintf(&b, "⭐ *Premium active* until %s\n", expiresAt)
	} else {
		b.WriteString("🆓 Free plan — basic template with watermark\n")
	}
	b.WriteString("\nWhat would you like to do?")
	return b.String()
}

func textPremiumInfo(plans []planLine, premium bool, expiresAt string) string {
	var b strings.Builder
	b.WriteString("⭐ *ResumeGenie Premium*\n\n")
	b.WriteString("• Modern, Creative and Minimalist templates\n")
	b.WriteString("• No watermark\n")
	b.WriteString("• Template previews before you choose\n\n")
	if len(plans) > 0 {
		b.WriteString("*Pricing*\n")
		for _, p := range plans {
			fmt.Fprintf(&b, "• %s — $%s\n", p.Title, p.Price)
		}
		b.WriteString("\n")
	}
	if premium {
		fmt.Fprintf(&b, "Your premium is active until *%s*. Enjoy!", expiresAt)
	} else {
		b.WriteString("Got a key? Activate it with /redeem. Previews of the premium templates are on their way 👇")
	}
	return b.String()
}

type planLine struct {
	Title string
	Price string
}

func textKeyIssued(key string, validDays int, expiresAt string) string {
	return fmt.Sprintf("🔑 *Premium key generated*\n\n`%s`\n\nValid for %d days, redeemable until %s. The key can be used once.",
		key, validDays, expiresAt)
}

func textRedeemed(expiresAt string) string {
	return fmt.Sprintf("🎉 *Premium activated!*\n\nYour subscription is valid until *%s*.\n\nSend /newresume to try the premium templates.", expiresAt)
}

func textRateLimited(wait string) string {
	return fmt.Sprintf("⏳ Too many failed attempts. Try again in %s.", wait)
}

func resumeFileName(r domain.Resume) string {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = "Resume"
	}
	name = strings.ReplaceAll(name, " ", "_")
	return name + "_Resume.pdf"
}

func previewFileName(tpl domain.Template) string {
	return string(tpl) + "_preview.pdf"
}
