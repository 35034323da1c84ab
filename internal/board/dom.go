package board

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Routes the rendered page posts to.
const (
	SignupPath     = "/board/signup"
	UnregisterPath = "/board/unregister"
)

const (
	classHidden            = "hidden"
	classDeleteParticipant = "delete-participant"
	unregisterFormID       = "unregister-form"
)

// Document is the page the board renders into. The attachment points are
// looked up once at construction and reused by every flow.
type Document struct {
	Root    *html.Node
	List    *html.Node
	Select  *html.Node
	Form    *html.Node
	Email   *html.Node
	Submit  *html.Node
	Message *html.Node
}

// NewDocument builds the page skeleton: a header, the activities container,
// the signup form and a hidden message element.
func NewDocument(title string) *Document {
	d := &Document{
		List:    element("div", "id", "activities-list"),
		Select:  element("select", "id", "activity", "name", "activity"),
		Email:   element("input", "type", "email", "id", "email", "name", "email", "placeholder", "your-email@mergington.edu"),
		Submit:  element("button", "type", "submit"),
		Message: element("div", "id", "message", "class", classHidden),
	}
	d.Submit.AppendChild(text("Sign Up"))

	d.Form = element("form", "id", "signup-form", "method", "post", "action", SignupPath)
	d.Form.AppendChild(formGroup("email", "Student Email:", d.Email))
	d.Form.AppendChild(formGroup("activity", "Select Activity:", d.Select))
	d.Form.AppendChild(d.Submit)

	head := element("head")
	head.AppendChild(element("meta", "charset", "UTF-8"))
	head.AppendChild(element("meta", "name", "viewport", "content", "width=device-width, initial-scale=1.0"))
	head.AppendChild(withText(element("title"), title+" Activities"))
	head.AppendChild(element("link", "rel", "stylesheet", "href", "/static/styles.css"))

	header := element("header")
	header.AppendChild(withText(element("h1"), title))
	header.AppendChild(withText(element("h2"), "Extracurricular Activities"))

	activities := element("section", "id", "activities-container")
	activities.AppendChild(withText(element("h3"), "Available Activities"))
	activities.AppendChild(d.List)

	signup := element("section", "id", "signup-container")
	signup.AppendChild(withText(element("h3"), "Sign Up for an Activity"))
	signup.AppendChild(d.Form)
	signup.AppendChild(d.Message)

	content := element("main")
	content.AppendChild(activities)
	content.AppendChild(signup)
	content.AppendChild(element("form", "id", unregisterFormID, "method", "post", "action", UnregisterPath))

	footer := element("footer")
	footer.AppendChild(withText(element("p"), "© "+title))

	body := element("body")
	body.AppendChild(header)
	body.AppendChild(content)
	body.AppendChild(footer)

	page := element("html", "lang", "en")
	page.AppendChild(head)
	page.AppendChild(body)

	d.Root = &html.Node{Type: html.DocumentNode}
	d.Root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	d.Root.AppendChild(page)
	return d
}

// EmailValue returns the email field's current value.
func (d *Document) EmailValue() string {
	v, _ := getAttr(d.Email, "value")
	return v
}

// SelectedActivity returns the select's value the way a browser resolves
// it: the selected option, else the first enabled option, else "".
func (d *Document) SelectedActivity() string {
	var firstEnabled *html.Node
	for o := d.Select.FirstChild; o != nil; o = o.NextSibling {
		if o.DataAtom != atom.Option {
			continue
		}
		if hasAttr(o, "selected") {
			v, _ := getAttr(o, "value")
			return v
		}
		if firstEnabled == nil && !hasAttr(o, "disabled") {
			firstEnabled = o
		}
	}
	if firstEnabled != nil {
		v, _ := getAttr(firstEnabled, "value")
		return v
	}
	return ""
}

// Fill writes submitted values into the form fields. An activity that has
// no option leaves the placeholder selected.
func (d *Document) Fill(email, activity string) {
	setAttr(d.Email, "value", email)
	d.selectOption(activity)
}

// ResetForm clears the email field and reselects the placeholder.
func (d *Document) ResetForm() {
	removeAttr(d.Email, "value")
	d.selectOption("")
}

func (d *Document) selectOption(value string) {
	var match, placeholder *html.Node
	for o := d.Select.FirstChild; o != nil; o = o.NextSibling {
		if o.DataAtom != atom.Option {
			continue
		}
		removeAttr(o, "selected")
		v, _ := getAttr(o, "value")
		if v == value && match == nil {
			match = o
		}
		if v == "" && placeholder == nil {
			placeholder = o
		}
	}
	if match == nil {
		match = placeholder
	}
	if match != nil {
		setAttr(match, "selected", "")
	}
}

// DeleteControl returns the rendered delete button for the participant, or
// nil when the list has none.
func (d *Document) DeleteControl(activity, email string) *html.Node {
	var found *html.Node
	walk(d.List, func(n *html.Node) bool {
		if !hasClass(n, classDeleteParticipant) {
			return true
		}
		a, _ := getAttr(n, "data-activity")
		e, _ := getAttr(n, "data-email")
		if a == activity && e == email {
			found = n
			return false
		}
		return true
	})
	return found
}

// Cards returns the rendered activity cards in order.
func (d *Document) Cards() []*html.Node {
	var cards []*html.Node
	for c := d.List.FirstChild; c != nil; c = c.NextSibling {
		if hasClass(c, "activity-card") {
			cards = append(cards, c)
		}
	}
	return cards
}

func formGroup(id, label string, field *html.Node) *html.Node {
	g := element("div", "class", "form-group")
	g.AppendChild(withText(element("label", "for", id), label))
	g.AppendChild(field)
	return g
}

// element creates a tag with attributes given as key/value pairs.
func element(tag string, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func withText(n *html.Node, s string) *html.Node {
	n.AppendChild(text(s))
	return n
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasAttr(n *html.Node, key string) bool {
	_, ok := getAttr(n, key)
	return ok
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != key {
			kept = append(kept, a)
		}
	}
	n.Attr = kept
}

func classes(n *html.Node) []string {
	v, _ := getAttr(n, "class")
	return strings.Fields(v)
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, c := range classes(n) {
		if c == class {
			return true
		}
	}
	return false
}

func addClass(n *html.Node, class string) {
	if hasClass(n, class) {
		return
	}
	setAttr(n, "class", strings.TrimSpace(strings.Join(append(classes(n), class), " ")))
}

func removeClass(n *html.Node, class string) {
	var kept []string
	for _, c := range classes(n) {
		if c != class {
			kept = append(kept, c)
		}
	}
	setAttr(n, "class", strings.Join(kept, " "))
}

func clearChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

func setText(n *html.Node, s string) {
	clearChildren(n)
	n.AppendChild(text(s))
}

func textContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}

// walk visits n and its descendants depth first until fn returns false.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}
