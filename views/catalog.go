package views

// Service is one of the offerings listed under /services/.
type Service struct {
	Slug     string
	Title    string
	Summary  string
	Features []string
}

// Services is the service catalogue, in menu order.
var Services = []Service{
	{
		Slug:    "it-support",
		Title:   "IT Support",
		Summary: "Helpdesk and on-site support for small and medium businesses, with fixed monthly pricing.",
		Features: []string{
			"Remote and on-site helpdesk",
			"Device setup and lifecycle management",
			"Microsoft 365 administration",
			"Proactive monitoring and patching",
		},
	},
	{
		Slug:    "cloud-solutions",
		Title:   "Cloud Solutions",
		Summary: "Migrations, backups and hosted infrastructure that scale with the business.",
		Features: []string{
			"Cloud migration planning",
			"Managed backup and disaster recovery",
			"Azure and AWS cost reviews",
			"Hosted desktops",
		},
	},
	{
		Slug:    "cyber-security",
		Title:   "Cyber Security",
		Summary: "Practical protection: audits, Cyber Essentials readiness and staff awareness.",
		Features: []string{
			"Security audits and penetration test coordination",
			"Cyber Essentials preparation",
			"Email filtering and endpoint protection",
			"Staff phishing awareness training",
		},
	},
	{
		Slug:    "web-development",
		Title:   "Web Development",
		Summary: "Fast, accessible websites and internal tools built and hosted for you.",
		Features: []string{
			"Marketing sites and landing pages",
			"Booking and enquiry systems",
			"Hosting, maintenance and SEO basics",
			"Integrations with existing business systems",
		},
	},
}

// ServiceBySlug finds a catalogue entry.
func ServiceBySlug(slug string) (Service, bool) {
	for _, s := range Services {
		if s.Slug == slug {
			return s, true
		}
	}
	return Service{}, false
}

// Project is a case study shown on /projects/.
type Project struct {
	Title   string
	Client  string
	Service string
	Outcome string
}

var Projects = []Project{
	{
		Title:   "Office move and network refresh",
		Client:  "Accountancy practice, Leeds city centre",
		Service: "it-support",
		Outcome: "Thirty staff moved over a weekend with no lost working hours.",
	},
	{
		Title:   "Server room to cloud",
		Client:  "Manufacturing firm, Wakefield",
		Service: "cloud-solutions",
		Outcome: "On-premise servers retired; backups now tested monthly.",
	},
	{
		Title:   "Cyber Essentials in six weeks",
		Client:  "Charity, Headingley",
		Service: "cyber-security",
		Outcome: "Certification achieved ahead of a funding deadline.",
	},
	{
		Title:   "Online booking site",
		Client:  "Physiotherapy clinic, Horsforth",
		Service: "web-development",
		Outcome: "Phone bookings halved within three months of launch.",
	},
}
