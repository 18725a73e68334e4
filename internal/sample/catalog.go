package sample

var customers = []string{
	"John Smith", "Sarah Johnson", "Tech Solutions Inc", "Mike Davis", "Emily Brown",
	"Global Systems Ltd", "David Wilson", "Jennifer Martinez", "ABC Corporation",
	"Robert Taylor", "Lisa Anderson", "Innovation Labs", "James Thomas", "Mary Jackson",
	"Digital Partners LLC", "Michael White", "Patricia Harris", "Enterprise Group",
	"Christopher Martin", "Linda Thompson", "Smart Tech Inc", "Daniel Garcia",
	"Elizabeth Rodriguez", "Cloud Services Co", "Matthew Robinson",
}

var addresses = []string{
	"123 Main St, New York, NY 10001", "456 Oak Avenue, Los Angeles, CA 90001",
	"789 Business Blvd, Suite 100, Chicago, IL 60601", "321 Elm Street, Houston, TX 77001",
	"654 Pine Road, Phoenix, AZ 85001", "987 Maple Drive, Philadelphia, PA 19019",
	"147 Cedar Lane, San Antonio, TX 78201", "258 Birch Way, San Diego, CA 92101",
	"369 Walnut Court, Dallas, TX 75201", "741 Spruce Avenue, San Jose, CA 95101",
	"852 Ash Boulevard, Austin, TX 78701", "963 Oak Street, Jacksonville, FL 32099",
	"159 Pine Circle, Fort Worth, TX 76101", "357 Maple Terrace, Columbus, OH 43004",
	"486 Cedar Plaza, Charlotte, NC 28201",
}

var items = []string{
	"Laptop Computer", "Wireless Mouse", "USB-C Cable", "Office Desk", "Office Chair",
	"Desk Lamp", "Web Development Service", "SEO Optimization", "Logo Design",
	`Monitor 27"`, "Keyboard Mechanical", "External Hard Drive", "Printer", "Scanner",
	"Webcam HD", "Headphones", "Microphone", "Docking Station", "Cable Organizer",
	"Standing Desk", "Ergonomic Mat", "Whiteboard", "Projector", "Conference Phone",
	"Router", "Network Switch", "UPS Battery Backup", "Server Rack", "Consulting Services",
	"Software License", "Cloud Storage", "Technical Support", "Training Session",
	"Marketing Campaign", "Graphic Design", "Content Writing", "Video Editing",
	"Data Analysis", "Security Audit", "Mobile App Development",
}

var discounts = []int{0, 5, 10, 15, 20}

// columnWidths are in spreadsheet character units, by header column.
var columnWidths = []float64{15, 25, 40, 18, 12, 30, 12, 12, 10, 12}
