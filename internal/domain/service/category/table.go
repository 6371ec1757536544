package category

import "at_deals/internal/domain/value"

// defaultTable maps normalized upstream labels to canonical categories.
// A label may map to more than one category; all matches are kept.
//
//nolint:gochecknoglobals
var defaultTable = map[string][]value.Category{
	// electronics
	"elektronik":         {value.CategoryElectronics},
	"technik":            {value.CategoryElectronics},
	"computer":           {value.CategoryElectronics},
	"pc":                 {value.CategoryElectronics},
	"hardware":           {value.CategoryElectronics},
	"laptop":             {value.CategoryElectronics},
	"notebook":           {value.CategoryElectronics},
	"tablet":             {value.CategoryElectronics},
	"smartphone":         {value.CategoryElectronics},
	"handy":              {value.CategoryElectronics},
	"handys":             {value.CategoryElectronics},
	"tv":                 {value.CategoryElectronics},
	"fernseher":          {value.CategoryElectronics},
	"audio":              {value.CategoryElectronics},
	"kopfhörer":          {value.CategoryElectronics},
	"foto":               {value.CategoryElectronics},
	"kamera":             {value.CategoryElectronics},
	"smart home":         {value.CategoryElectronics, value.CategoryHome},
	"konsolen":           {value.CategoryElectronics, value.CategoryEntertainment},
	"internet & telefon": {value.CategoryElectronics},
	"handyverträge":      {value.CategoryElectronics},

	// appliances
	"haushaltsgeräte": {value.CategoryAppliances},
	"elektrogeräte":   {value.CategoryAppliances},
	"küchengeräte":    {value.CategoryAppliances},
	"staubsauger":     {value.CategoryAppliances},
	"kaffeemaschinen": {value.CategoryAppliances},
	"waschmaschinen":  {value.CategoryAppliances},

	// fashion
	"mode":         {value.CategoryFashion},
	"fashion":      {value.CategoryFashion},
	"bekleidung":   {value.CategoryFashion},
	"kleidung":     {value.CategoryFashion},
	"schuhe":       {value.CategoryFashion},
	"accessoires":  {value.CategoryFashion},
	"taschen":      {value.CategoryFashion},
	"schmuck":      {value.CategoryFashion},
	"uhren":        {value.CategoryFashion},
	"mode & style": {value.CategoryFashion},

	// beauty
	"beauty":              {value.CategoryBeauty},
	"kosmetik":            {value.CategoryBeauty},
	"drogerie":            {value.CategoryBeauty},
	"parfum":              {value.CategoryBeauty},
	"pflege":              {value.CategoryBeauty},
	"körperpflege":        {value.CategoryBeauty},
	"gesundheit":          {value.CategoryBeauty},
	"beauty & gesundheit": {value.CategoryBeauty},

	// food
	"lebensmittel":    {value.CategoryFood},
	"essen":           {value.CategoryFood},
	"getränke":        {value.CategoryFood},
	"essen & trinken": {value.CategoryFood},
	"supermarkt":      {value.CategoryFood},
	"lieferservice":   {value.CategoryFood},
	"restaurant":      {value.CategoryFood},
	"food":            {value.CategoryFood},

	// sports
	"sport":            {value.CategorySports},
	"fitness":          {value.CategorySports},
	"outdoor":          {value.CategorySports},
	"fahrrad":          {value.CategorySports},
	"sport & outdoor":  {value.CategorySports},
	"sport & freizeit": {value.CategorySports, value.CategoryEntertainment},

	// family-kids
	"kinder":           {value.CategoryFamilyKids},
	"baby":             {value.CategoryFamilyKids},
	"familie":          {value.CategoryFamilyKids},
	"spielzeug":        {value.CategoryFamilyKids},
	"familie & kinder": {value.CategoryFamilyKids},
	"baby & kind":      {value.CategoryFamilyKids},

	// home
	"wohnen":        {value.CategoryHome},
	"haushalt":      {value.CategoryHome},
	"haus & garten": {value.CategoryHome},
	"garten":        {value.CategoryHome},
	"möbel":         {value.CategoryHome},
	"baumarkt":      {value.CategoryHome},
	"heimwerken":    {value.CategoryHome},
	"deko":          {value.CategoryHome},

	// auto
	"auto":            {value.CategoryAuto},
	"kfz":             {value.CategoryAuto},
	"motorrad":        {value.CategoryAuto},
	"auto & motorrad": {value.CategoryAuto},
	"reifen":          {value.CategoryAuto},
	"tanken":          {value.CategoryAuto},

	// entertainment
	"unterhaltung":   {value.CategoryEntertainment},
	"gaming":         {value.CategoryEntertainment},
	"games":          {value.CategoryEntertainment},
	"spiele":         {value.CategoryEntertainment},
	"filme":          {value.CategoryEntertainment},
	"filme & serien": {value.CategoryEntertainment},
	"musik":          {value.CategoryEntertainment},
	"bücher":         {value.CategoryEntertainment},
	"streaming":      {value.CategoryEntertainment},
	"kino":           {value.CategoryEntertainment},
	"freizeit":       {value.CategoryEntertainment},
	"tickets":        {value.CategoryEntertainment},

	// travel
	"reisen": {value.CategoryTravel},
	"urlaub": {value.CategoryTravel},
	"flüge":  {value.CategoryTravel},
	"hotels": {value.CategoryTravel},
	"travel": {value.CategoryTravel},
}
