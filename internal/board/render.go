package board

import (
	"fmt"
	"net/url"

	"golang.org/x/net/html"

	"github.com/Shivanand-hulikatti/activity-board/internal/model"
)

const placeholderLabel = "-- Select an activity --"

// RenderCatalog replaces the activity list and the select options with the
// contents of catalog, in catalog order, and returns how many cards were
// appended. Delete buttons carry their activity and email as data
// attributes; clicks on them are dispatched by Controller.Click.
func RenderCatalog(doc *Document, catalog model.Catalog) int {
	clearChildren(doc.List)
	clearChildren(doc.Select)

	doc.Select.AppendChild(withText(
		element("option", "value", "", "disabled", "", "selected", ""),
		placeholderLabel,
	))

	appended := 0
	for _, a := range catalog.Activities() {
		doc.List.AppendChild(activityCard(a))
		appended++

		doc.Select.AppendChild(withText(element("option", "value", a.Name), a.Name))
	}
	return appended
}

func activityCard(a model.Activity) *html.Node {
	card := element("div", "class", "activity-card")
	card.AppendChild(withText(element("h4"), a.Name))
	card.AppendChild(withText(element("p"), a.Description))
	card.AppendChild(labelled("Schedule:", " "+a.Schedule))
	card.AppendChild(labelled("Availability:", fmt.Sprintf(" %d spots left", a.SpotsLeft())))
	card.AppendChild(labelled("Participants:", ""))

	list := element("ul", "class", "participants")
	for _, email := range a.Participants {
		list.AppendChild(participantRow(a.Name, email))
	}
	card.AppendChild(list)
	return card
}

func participantRow(activity, email string) *html.Node {
	q := url.Values{}
	q.Set("activity", activity)
	q.Set("email", email)

	button := element("button",
		"type", "submit",
		"form", unregisterFormID,
		"formaction", UnregisterPath+"?"+q.Encode(),
		"class", classDeleteParticipant,
		"data-activity", activity,
		"data-email", email,
		"title", "Remove participant",
	)
	button.AppendChild(text("🗑️"))

	row := element("li")
	row.AppendChild(withText(element("span"), email))
	row.AppendChild(button)
	return row
}

func labelled(label, value string) *html.Node {
	p := element("p")
	p.AppendChild(withText(element("strong"), label))
	if value != "" {
		p.AppendChild(text(value))
	}
	return p
}
