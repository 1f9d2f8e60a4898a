package importing

// TableTrainees, TableTrainers, TableClasses, TablePayments are the registry keys.
const (
	TableTrainees = "trainees"
	TableTrainers = "trainers"
	TableClasses  = "classes"
	TablePayments = "payments"
)

// schemas declares every importable destination table. Order is the order
// offered to the user in the wizard.
var schemas = []TableSchema{
	{
		Key:   TableTrainees,
		Label: "المتدربون",
		Fields: []FieldSchema{
			{Key: "name_ar", Label: "الاسم", Required: true, Kind: KindText,
				Synonyms: []string{"اسم المتدرب", "الاسم الكامل", "name", "full name"}},
			{Key: "name_en", Label: "الاسم بالانجليزية", Kind: KindText,
				Synonyms: []string{"english name", "name en"}},
			{Key: "phone", Label: "الهاتف", Kind: KindPhone,
				Synonyms: []string{"رقم الهاتف", "الجوال", "phone", "mobile"}},
			{Key: "birth_date", Label: "تاريخ الميلاد", Kind: KindDate,
				Synonyms: []string{"الميلاد", "birth date", "dob"}},
			{Key: "class_id", Label: "الفريق", Kind: KindForeignKey,
				ReferenceTable: TableClasses, ReferenceDisplayField: "name",
				Synonyms: []string{"المجموعة", "team", "class", "group"}},
			{Key: "monthly_fee", Label: "الاشتراك الشهري", Kind: KindNumber,
				Synonyms: []string{"الرسوم", "fee", "monthly fee"}},
			{Key: "status", Label: "الحالة", Kind: KindEnum,
				Options:  []string{"active", "inactive"},
				Synonyms: []string{"status"}},
		},
	},
	{
		Key:   TableTrainers,
		Label: "المدربون",
		Fields: []FieldSchema{
			{Key: "name", Label: "اسم المدرب", Required: true, Kind: KindText,
				Synonyms: []string{"الاسم", "trainer", "coach", "name"}},
			{Key: "phone", Label: "الهاتف", Required: true, Kind: KindPhone,
				Synonyms: []string{"رقم الهاتف", "الجوال", "phone", "mobile"}},
		},
	},
	{
		Key:   TableClasses,
		Label: "الفرق",
		Fields: []FieldSchema{
			{Key: "name", Label: "اسم الفريق", Required: true, Kind: KindText,
				Synonyms: []string{"الفريق", "team", "class", "name"}},
			{Key: "trainer_id", Label: "المدرب", Kind: KindForeignKey,
				ReferenceTable: TableTrainers, ReferenceDisplayField: "name",
				Synonyms: []string{"اسم المدرب", "trainer", "coach"}},
			{Key: "season", Label: "الموسم", Kind: KindText,
				Synonyms: []string{"season"}},
		},
	},
	{
		Key:   TablePayments,
		Label: "الدفعات",
		Fields: []FieldSchema{
			{Key: "trainee_id", Label: "المتدرب", Required: true, Kind: KindForeignKey,
				ReferenceTable: TableTrainees, ReferenceDisplayField: "name_ar",
				Synonyms: []string{"اللاعب", "trainee", "player"}},
			{Key: "amount", Label: "المبلغ", Required: true, Kind: KindNumber,
				Synonyms: []string{"amount", "sum"}},
			{Key: "month", Label: "الشهر", Required: true, Kind: KindText,
				Synonyms: []string{"month"}},
			{Key: "method", Label: "طريقة الدفع", Kind: KindEnum,
				Options:  []string{"cash", "card", "transfer"},
				Synonyms: []string{"method", "payment method"}},
		},
	},
}

// ListSchemas returns every importable table schema in declaration order.
// PRE: none
// POST: returned slice is a copy; mutating it does not affect the registry
func ListSchemas() []TableSchema {
	out := make([]TableSchema, len(schemas))
	copy(out, schemas)
	return out
}

// GetSchema looks up a table schema by key.
// PRE: none
// POST: returns the schema and true, or a zero TableSchema and false — never an error
func GetSchema(key string) (TableSchema, bool) {
	for _, s := range schemas {
		if s.Key == key {
			return s, true
		}
	}
	return TableSchema{}, false
}
