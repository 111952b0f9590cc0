package sqlinline

// QEnsureSchema is idempotent and runs without arguments, so pgx sends it over
// the simple protocol as one multi-statement batch.
const QEnsureSchema = `--sql 82f40bff-a405-4ae2-9a65-f2728736b064
create table if not exists fundraising_campaigns (
  id            uuid primary key,
  title         text not null,
  description   text not null default '',
  goal_amount   numeric(14,2) not null check (goal_amount > 0),
  raised_amount numeric(14,2) not null default 0,
  start_date    date,
  end_date      date,
  created_by    text not null default '',
  created_at    timestamptz not null default now(),
  updated_at    timestamptz not null default now()
);

create table if not exists donations (
  id             uuid primary key,
  campaign_id    uuid not null references fundraising_campaigns(id) on delete cascade,
  donor_id       text not null,
  amount         numeric(14,2) not null check (amount > 0),
  payment_method text not null default '',
  transaction_id text not null default '',
  is_anonymous   boolean not null default false,
  created_at     timestamptz not null default now()
);

create index if not exists donations_campaign_created_idx on donations (campaign_id, created_at desc);
create index if not exists donations_campaign_donor_idx on donations (campaign_id, donor_id);
`
